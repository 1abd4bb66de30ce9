//go:build integration

// Package testdb provides helpers for database integration tests.
//
// Tests run against the database named by DATABASE_URL or TASKFLOW_TEST_DB_URL
// and are skipped when neither is set. The schema is brought up with the
// embedded goose migrations once per process, and each test runs inside a
// transaction that is rolled back when the test finishes:
//
//	func TestSomething(t *testing.T) {
//	    db := testdb.GetTestDBWithT(t)
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        store := postgres.NewPostgresTaskStore(tx, nil)
//	        // ...
//	    })
//	}
package testdb
