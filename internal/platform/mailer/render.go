package mailer

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"github.com/phrazzld/taskflow-api/internal/domain"
)

// Date layouts used in notification bodies.
const (
	DeadlineLayout  = "02/01/2006"
	CreatedAtLayout = "02/01/2006 15:04"
)

// TaskCreatedSubject is the subject line of task creation notifications.
const TaskCreatedSubject = "New task created"

//go:embed templates/*
var templateFS embed.FS

var (
	taskCreatedHTML = htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/task_created.html"))
	taskCreatedText = texttemplate.Must(texttemplate.ParseFS(templateFS, "templates/task_created.txt"))
)

// TaskCreatedEmail is the data rendered into a task creation notification.
type TaskCreatedEmail struct {
	RecipientName string
	ProjectName   string
	Title         string
	Description   string
	PriorityLabel string
	PriorityColor string
	StatusLabel   string
	Deadline      string
	CreatedAt     string
}

// NewTaskCreatedEmail prepares the template data for details.
func NewTaskCreatedEmail(details domain.TaskDetails) TaskCreatedEmail {
	task := details.Task
	email := TaskCreatedEmail{
		RecipientName: details.OwnerName,
		ProjectName:   details.ProjectName,
		Title:         task.Title,
		PriorityLabel: task.Priority.Label(),
		PriorityColor: task.Priority.Color(),
		StatusLabel:   task.Status.Label(),
		CreatedAt:     task.CreatedAt.UTC().Format(CreatedAtLayout),
	}
	if task.Description != nil {
		email.Description = *task.Description
	}
	if task.Deadline != nil {
		email.Deadline = task.Deadline.UTC().Format(DeadlineLayout)
	}
	return email
}

// RenderTaskCreated renders the notification sent to a task's owner when the task is created.
func RenderTaskCreated(details domain.TaskDetails) (Message, error) {
	data := NewTaskCreatedEmail(details)

	var html bytes.Buffer
	if err := taskCreatedHTML.Execute(&html, data); err != nil {
		return Message{}, fmt.Errorf("failed to render html body: %w", err)
	}

	var text bytes.Buffer
	if err := taskCreatedText.Execute(&text, data); err != nil {
		return Message{}, fmt.Errorf("failed to render text body: %w", err)
	}

	msg := Message{
		ToAddress: details.OwnerEmail,
		ToName:    details.OwnerName,
		Subject:   TaskCreatedSubject,
		TextBody:  text.String(),
		HTMLBody:  html.String(),
	}
	return msg, msg.Validate()
}
