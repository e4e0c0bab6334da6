package notify

import (
	"fmt"
	"strings"
	"time"
)

// Message composition for the handful of notification kinds the system sends.
// Wording mirrors what users already receive and should not drift casually.

const timeLayout = "Jan 2, 2006 3:04 PM"

func formatDue(due *time.Time) string {
	if due == nil {
		return ""
	}
	return due.Format(timeLayout)
}

func ReminderSubject(title string) string {
	return fmt.Sprintf("Reminder: %s is due soon", title)
}

func OwnerReminderBody(ownerName, title string, due *time.Time) string {
	return fmt.Sprintf("<p>Hi %s,</p><p>Your task <b>%s</b> is due by %s.</p>",
		ownerName, title, formatDue(due))
}

func AssigneeReminderBody(assigneeName, title string, due *time.Time) string {
	return fmt.Sprintf("<p>Hi %s,</p><p>The task <b>%s</b> assigned to you is due by %s.</p>",
		assigneeName, title, formatDue(due))
}

func ReminderSMS(title string) string {
	return fmt.Sprintf("Task due soon: %s", title)
}

func TaskAssignedSubject(title string) string {
	return fmt.Sprintf("New task assigned to you: %s", title)
}

func MentionedSubject(projectName string) string {
	return fmt.Sprintf("You were mentioned on a project: %s", projectName)
}

func TaskAssignedBody(assigneeName, projectName, title string, due, assignedAt *time.Time) string {
	lines := []string{
		fmt.Sprintf("Hi %s,", assigneeName),
		"",
		fmt.Sprintf("You have been assigned a task in project %q.", projectName),
		fmt.Sprintf("Title: %s", title),
	}
	if due != nil {
		lines = append(lines, fmt.Sprintf("Due: %s", formatDue(due)))
	}
	if assignedAt != nil {
		lines = append(lines, fmt.Sprintf("Assigned At: %s", formatDue(assignedAt)))
	}
	lines = append(lines, "", "Please log in to view the details.")
	return strings.Join(lines, "<br/>")
}

func MentionedBody(projectName, title string, due *time.Time) string {
	lines := []string{
		"Hello,",
		"",
		fmt.Sprintf("A task was created in project %q mentioning your email.", projectName),
		fmt.Sprintf("Title: %s", title),
	}
	if due != nil {
		lines = append(lines, fmt.Sprintf("Due: %s", formatDue(due)))
	}
	lines = append(lines, "", "Please log in to view the details.")
	return strings.Join(lines, "<br/>")
}

func TaskCreatedSubject(title string) string {
	return fmt.Sprintf("Task created: %s", title)
}

func TaskCreatedBody(ownerName, title string, due *time.Time) string {
	lines := []string{
		fmt.Sprintf("Hi %s,", ownerName),
		"",
		"Your task has been created.",
		fmt.Sprintf("Title: %s", title),
	}
	if due != nil {
		lines = append(lines, fmt.Sprintf("Due: %s", formatDue(due)))
	}
	lines = append(lines, "", "You can manage this task in your Tasks list.")
	return strings.Join(lines, "<br/>")
}

func TaskCompletedSubject(title string) string {
	return fmt.Sprintf("Task completed: %s", title)
}

func TaskCompletedBody(title string, due *time.Time) string {
	body := fmt.Sprintf("<p>The task <b>%s</b> was marked as completed.</p>", title)
	if due != nil {
		body += fmt.Sprintf("<p>Due: %s</p>", formatDue(due))
	}
	return body
}
