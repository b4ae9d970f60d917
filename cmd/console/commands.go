package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"

	"erpdesk/internal/console"
	"erpdesk/internal/document"
	"erpdesk/internal/editor"
	"erpdesk/internal/tui"
)

func registerCommands(r *CommandRegistry) {
	r.Register(&Command{
		Name:        "list",
		Description: "List documents, optionally filtered by a search query",
		Usage:       "console list [-q query]",
		Examples:    []string{"console list", "console list -q invoice"},
		Run:         listCommand,
	})
	r.Register(&Command{
		Name:        "create",
		Description: "Create a document",
		Usage:       "console create -title T -type invoice|report|contract -number N -issued YYYY-MM-DD -entity E -received YYYY-MM-DD -responsible P [-attachments A] [-content HTML]",
		Examples: []string{
			`console create -title "Invoice A" -type invoice -number INV-001 -issued 2024-01-01 -entity Ministry -received 2024-01-02 -responsible "A. Ali" -content "<p>body</p>"`,
		},
		Run: createCommand,
	})
	r.Register(&Command{
		Name:        "archive",
		Description: "Archive a pending document",
		Usage:       "console archive -id ID",
		Run:         archiveCommand,
	})
	r.Register(&Command{
		Name:        "assign",
		Description: "Assign a document to a person",
		Usage:       "console assign -id ID -name NAME",
		Run:         assignCommand,
	})
	r.Register(&Command{
		Name:        "track",
		Description: "Show a document's status as the store reports it",
		Usage:       "console track -id ID",
		Run:         trackCommand,
	})
	r.Register(&Command{
		Name:        "view",
		Description: "Show a document",
		Usage:       "console view -id ID",
		Run:         viewCommand,
	})
	r.Register(&Command{
		Name:        "print",
		Description: "Print a document or inbox item",
		Usage:       "console print -id ID [-inbox]",
		Examples:    []string{"console print -id doc_123", "console print -id inbox-1001 -inbox"},
		Run:         printCommand,
	})
	r.Register(&Command{
		Name:        "inbox",
		Description: "List received inbox items",
		Usage:       "console inbox",
		Run:         inboxCommand,
	})
	r.Register(&Command{
		Name:        "ui",
		Description: "Open the terminal console",
		Usage:       "console ui",
		Interactive: true,
		Run:         uiCommand,
	})
}

func listCommand(env *environment, args []string) error {
	fs := env.command.NewFlagSet()
	query := fs.String("q", "", "search query")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var rows []console.Row
	if strings.TrimSpace(*query) != "" {
		results, err := env.client.Search(env.ctx, *query)
		if err != nil {
			return err
		}
		for _, item := range results {
			rows = append(rows, console.Row{Document: item, CanArchive: item.Status.CanArchive()})
		}
	} else {
		if err := env.ws.Lifecycle.Refresh(env.ctx); err != nil {
			return report(env, err)
		}
		rows = env.ws.Lifecycle.Rows()
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tTYPE\tSTATUS\tASSIGNEE\tARCHIVE")
	for _, row := range rows {
		archive := "-"
		if row.CanArchive {
			archive = "available"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", row.ID, row.Title, row.Type, row.Status, row.AssigneeLabel(), archive)
	}
	return w.Flush()
}

func createCommand(env *environment, args []string) error {
	fs := env.command.NewFlagSet()
	values := map[document.Field]*string{
		document.FieldTitle:                 fs.String("title", "", "title"),
		document.FieldType:                  fs.String("type", "", "invoice, report or contract"),
		document.FieldDocumentNumber:        fs.String("number", "", "document number"),
		document.FieldIssueDate:             fs.String("issued", "", "issue date (YYYY-MM-DD)"),
		document.FieldIssuingEntity:         fs.String("entity", "", "issuing entity"),
		document.FieldAccompanyingDocuments: fs.String("attachments", "", "accompanying documents"),
		document.FieldReceiptDate:           fs.String("received", "", "receipt date (YYYY-MM-DD)"),
		document.FieldResponsiblePerson:     fs.String("responsible", "", "responsible person"),
	}
	content := fs.String("content", "", "content markup")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := env.ws.Form.Mount("cli"); err != nil {
		return err
	}
	defer env.ws.Form.Unmount()
	for field, value := range values {
		env.ws.Form.Set(field, *value)
	}
	if err := env.buffer.Edit(*content); err != nil {
		return err
	}

	created, err := env.ws.Form.Submit(env.ctx)
	if err != nil {
		return report(env, err)
	}
	printNotes(env)
	fmt.Println(created.ID)
	return nil
}

func archiveCommand(env *environment, args []string) error {
	id, err := idFlag(env, args)
	if err != nil {
		return err
	}
	if err := env.ws.Lifecycle.Refresh(env.ctx); err != nil {
		return report(env, err)
	}
	if row, ok := env.ws.Lifecycle.Row(id); ok && !row.CanArchive {
		fmt.Printf("%s is already %s\n", id, row.Status)
		return nil
	}
	if err := env.ws.Lifecycle.Archive(env.ctx, id); err != nil {
		return report(env, err)
	}
	printNotes(env)
	return nil
}

func assignCommand(env *environment, args []string) error {
	fs := env.command.NewFlagSet()
	id := fs.String("id", "", "document id")
	name := fs.String("name", "", "assignee name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := env.ws.Lifecycle.Refresh(env.ctx); err != nil {
		return report(env, err)
	}
	if err := env.ws.Dialog.Open(*id); err != nil {
		return err
	}
	if err := env.ws.Dialog.SetAssignee(*name); err != nil {
		return err
	}
	if _, err := env.ws.Dialog.Confirm(env.ctx); err != nil {
		env.ws.Dialog.Cancel()
		return report(env, err)
	}
	printNotes(env)
	return nil
}

func trackCommand(env *environment, args []string) error {
	id, err := idFlag(env, args)
	if err != nil {
		return err
	}
	info, err := env.ws.Lifecycle.Track(env.ctx, id)
	if err != nil {
		return report(env, err)
	}
	env.recorder.Drain()
	fmt.Println(info.Status)
	return nil
}

func viewCommand(env *environment, args []string) error {
	id, err := idFlag(env, args)
	if err != nil {
		return err
	}
	item, err := env.ws.Lifecycle.View(env.ctx, id)
	if err != nil {
		return report(env, err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, line := range [][2]string{
		{"Title", item.Title},
		{"Type", string(item.Type)},
		{"Status", string(item.Status)},
		{"Number", item.DocumentNumber},
		{"Issued", item.IssueDate},
		{"Issuing entity", item.IssuingEntity},
		{"Attachments", item.AccompanyingDocuments},
		{"Received", item.ReceiptDate},
		{"Responsible", item.ResponsiblePerson},
		{"Assignee", item.AssigneeLabel()},
	} {
		fmt.Fprintf(w, "%s:\t%s\n", line[0], line[1])
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Println()
	fmt.Println(editor.PlainText(env.buffer.Document()))
	return nil
}

func printCommand(env *environment, args []string) error {
	fs := env.command.NewFlagSet()
	id := fs.String("id", "", "document or inbox item id")
	inbox := fs.Bool("inbox", false, "id is an inbox item")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*id) != "" {
		if *inbox {
			if err := env.ws.Inbox.Mount(env.ctx); err != nil {
				return report(env, err)
			}
			if _, err := env.ws.Inbox.View(*id); err != nil {
				return report(env, err)
			}
		} else if _, err := env.ws.Lifecycle.View(env.ctx, *id); err != nil {
			return report(env, err)
		}
	}
	result, err := env.ws.Lifecycle.Print(env.ctx)
	if err != nil {
		return report(env, err)
	}
	env.recorder.Drain()
	if result.Location != "" {
		fmt.Println(result.Location)
		return nil
	}
	_, err = os.Stdout.Write(result.Data)
	return err
}

func inboxCommand(env *environment, args []string) error {
	if err := env.command.NewFlagSet().Parse(args); err != nil {
		return err
	}
	if err := env.ws.Inbox.Mount(env.ctx); err != nil {
		return report(env, err)
	}
	defer env.ws.Inbox.Unmount()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tSENDER\tRECEIVED")
	for _, item := range env.ws.Inbox.Items() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", item.ID, item.Title, item.Sender, item.ReceivedDate)
	}
	return w.Flush()
}

func uiCommand(env *environment, args []string) error {
	if err := env.command.NewFlagSet().Parse(args); err != nil {
		return err
	}
	if err := env.ws.Form.Mount("tui"); err != nil {
		return err
	}
	defer env.ws.Form.Unmount()
	program := tea.NewProgram(tui.NewApp(env.ctx, env.ws, env.recorder), tea.WithAltScreen(), tea.WithContext(env.ctx))
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

func idFlag(env *environment, args []string) (string, error) {
	fs := env.command.NewFlagSet()
	id := fs.String("id", "", "document id")
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if strings.TrimSpace(*id) == "" {
		return "", fmt.Errorf("-id is required")
	}
	return *id, nil
}

// report prints the notifications a failed action produced and returns err.
func report(env *environment, err error) error {
	printNotes(env)
	return err
}

func printNotes(env *environment) {
	for _, note := range env.recorder.Drain() {
		line := note.Title
		if note.Description != "" {
			line += ": " + note.Description
		}
		out := os.Stdout
		if note.Status == console.LevelError {
			out = os.Stderr
		}
		fmt.Fprintln(out, line)
	}
}
