// Command hash-generator prints bcrypt hashes for seeding users directly
// into the database. Passwords are read from arguments, or one per line
// from stdin when no arguments are given.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/service/auth"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cost := flag.Int("cost", bcrypt.DefaultCost, "bcrypt cost")
	flag.Parse()

	if err := run(os.Stdout, os.Stdin, flag.Args(), *cost); err != nil {
		fmt.Fprintf(os.Stderr, "hash-generator: %v\n", err)
		os.Exit(1)
	}
}

func run(out io.Writer, in io.Reader, passwords []string, cost int) error {
	if len(passwords) == 0 {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			if line := scanner.Text(); line != "" {
				passwords = append(passwords, line)
			}
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("failed to read passwords: %w", err)
		}
	}

	hasher := auth.NewBcryptHasher(cost)
	for _, password := range passwords {
		if err := checkPassword(password); err != nil {
			return err
		}
		hash, err := hasher.Hash(password)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		if _, err := fmt.Fprintln(out, hash); err != nil {
			return err
		}
	}
	return nil
}

// checkPassword applies the same length rules as registration.
func checkPassword(password string) error {
	_, err := domain.NewUser("seed", "seed@example.com", password)
	return err
}
