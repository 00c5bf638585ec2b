// Package shell is the interactive menu over the expense ledger. It
// prompts, dispatches to the record service and renders results; all
// errors are caught and displayed here, the core never prints.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"fintrack/internal/core"
	"fintrack/internal/services"
)

const menu = `
Finance Tracker Menu
1. Add Expense
2. Remove Expense
3. View Expenses
4. Save Expenses to File
5. Load Expenses from File
6. Set Limits
7. Add User
8. Remove User
9. List Users
10. Show Summary
11. Exit`

type Shell struct {
	svc         *services.RecordService
	in          *bufio.Reader
	out         io.Writer
	defaultFile string
}

// New builds a shell reading commands from in and rendering to out.
func New(svc *services.RecordService, in io.Reader, out io.Writer) *Shell {
	return &Shell{
		svc: svc,
		in:  bufio.NewReader(in),
		out: out,
	}
}

// SetDefaultFile sets the filename offered when the save and load
// prompts are answered with an empty line.
func (s *Shell) SetDefaultFile(name string) {
	s.defaultFile = name
}

// Run loops over the menu until the user exits or input reaches EOF.
func (s *Shell) Run(ctx context.Context) {
	for {
		fmt.Fprintln(s.out, menu)
		choice, err := promptLine(s.in, "Enter your choice: ", s.out)
		if err != nil {
			return
		}

		switch choice {
		case "1":
			s.addExpense(ctx)
		case "2":
			s.removeExpense(ctx)
		case "3":
			s.viewExpenses()
		case "4":
			s.saveFile(ctx)
		case "5":
			s.loadFile(ctx)
		case "6":
			s.setLimits()
		case "7":
			s.addUser(ctx)
		case "8":
			s.removeUser(ctx)
		case "9":
			s.listUsers()
		case "10":
			s.showSummary()
		case "11", "exit", "quit":
			fmt.Fprintln(s.out, "Exiting Finance Tracker.")
			return
		default:
			fmt.Fprintln(s.out, "Invalid choice. Please try again.")
		}
	}
}

func (s *Shell) addExpense(ctx context.Context) {
	amount, err := promptAmount(s.in, "Enter amount: ", s.out)
	if err != nil {
		s.fail(err)
		return
	}
	description, err := promptLine(s.in, "Enter description: ", s.out)
	if err != nil {
		s.fail(err)
		return
	}
	user, err := promptLine(s.in, "Enter user: ", s.out)
	if err != nil {
		s.fail(err)
		return
	}
	category, err := promptLine(s.in, "Enter category (food/transport/entertainment/utilities/other): ", s.out)
	if err != nil {
		s.fail(err)
		return
	}

	if _, err := s.svc.CreateRecord(ctx, amount, user, description, core.ParseCategory(category)); err != nil {
		s.fail(err)
		return
	}
	fmt.Fprintln(s.out, "Expense added.")
}

func (s *Shell) removeExpense(ctx context.Context) {
	s.viewExpenses()
	index, err := promptIndex(s.in, "Enter the index of the expense to remove: ", s.out)
	if err != nil {
		s.fail(err)
		return
	}
	if err := s.svc.RemoveRecord(ctx, index); err != nil {
		s.fail(err)
		return
	}
	fmt.Fprintln(s.out, "Expense removed.")
}

func (s *Shell) viewExpenses() {
	records := s.svc.ListRecords()
	if len(records) == 0 {
		fmt.Fprintln(s.out, "No expenses recorded.")
		return
	}
	for i, rec := range records {
		fmt.Fprintf(s.out, "%d: %s\n", i, rec)
	}
}

func (s *Shell) saveFile(ctx context.Context) {
	filename, err := s.promptFilename("Enter filename to save expenses")
	if err != nil {
		s.fail(err)
		return
	}
	if err := s.svc.SaveFile(ctx, filename); err != nil {
		s.fail(err)
		return
	}
	fmt.Fprintln(s.out, "Expenses saved to file.")
}

func (s *Shell) loadFile(ctx context.Context) {
	filename, err := s.promptFilename("Enter filename to load expenses")
	if err != nil {
		s.fail(err)
		return
	}
	if err := s.svc.LoadFile(ctx, filename); err != nil {
		s.fail(err)
		return
	}
	fmt.Fprintln(s.out, "Expenses loaded from file.")
}

func (s *Shell) setLimits() {
	daily, err := promptAmount(s.in, "Enter daily limit: ", s.out)
	if err != nil {
		s.fail(err)
		return
	}
	weekly, err := promptAmount(s.in, "Enter weekly limit: ", s.out)
	if err != nil {
		s.fail(err)
		return
	}
	monthly, err := promptAmount(s.in, "Enter monthly limit: ", s.out)
	if err != nil {
		s.fail(err)
		return
	}
	s.svc.SetLimits(daily, weekly, monthly)
	fmt.Fprintln(s.out, "Limits set.")
}

func (s *Shell) addUser(ctx context.Context) {
	user, err := promptLine(s.in, "Enter user to add: ", s.out)
	if err != nil {
		s.fail(err)
		return
	}
	s.svc.AddUser(ctx, user)
	fmt.Fprintln(s.out, "User added.")
}

func (s *Shell) removeUser(ctx context.Context) {
	user, err := promptLine(s.in, "Enter user to remove: ", s.out)
	if err != nil {
		s.fail(err)
		return
	}
	s.svc.RemoveUser(ctx, user)
	fmt.Fprintln(s.out, "User removed.")
}

func (s *Shell) listUsers() {
	users := s.svc.Users()
	if len(users) == 0 {
		fmt.Fprintln(s.out, "No users registered.")
		return
	}
	for _, u := range users {
		fmt.Fprintln(s.out, u)
	}
}

func (s *Shell) showSummary() {
	o := s.svc.Overview()
	fmt.Fprintf(s.out, "Total: $%s\n", o.Total)
	for _, c := range o.ByCategory {
		fmt.Fprintf(s.out, "  %s: $%s\n", c.Name, c.Amount)
	}
	for _, u := range o.ByUser {
		fmt.Fprintf(s.out, "  %s: $%s\n", u.Name, u.Amount)
	}
}

// promptFilename asks for a filename, falling back to the configured
// default on an empty answer.
func (s *Shell) promptFilename(prompt string) (string, error) {
	if s.defaultFile != "" {
		prompt = fmt.Sprintf("%s [%s]", prompt, s.defaultFile)
	}
	filename, err := promptLine(s.in, prompt+": ", s.out)
	if err != nil {
		return "", err
	}
	if filename == "" {
		if s.defaultFile == "" {
			return "", errors.New("no filename given")
		}
		filename = s.defaultFile
	}
	return filename, nil
}

func (s *Shell) fail(err error) {
	if errors.Is(err, io.EOF) {
		return
	}
	fmt.Fprintf(s.out, "Error: %v\n", err)
}
