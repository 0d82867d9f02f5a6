package main

import (
	"time"

	"github.com/addrbook/contacts/internal/contact"
	"github.com/spf13/cobra"
)

func init() {
	addCmd.Flags().StringSliceP("email", "e", nil, "Email address (repeatable)")
	addCmd.Flags().StringP("birthday", "b", "", "Birthday as YYYY-MM-DD")
	rootCmd.AddCommand(addCmd)

	changeCmd.Flags().Bool("email", false, "Edit an email address instead of a phone")
	rootCmd.AddCommand(changeCmd)

	rootCmd.AddCommand(phoneCmd)
	rootCmd.AddCommand(emailCmd)

	birthdayCmd.Flags().Bool("clear", false, "Remove the stored birthday")
	rootCmd.AddCommand(birthdayCmd)

	deleteCmd.Flags().String("phone", "", "Remove only this phone number")
	deleteCmd.Flags().String("email", "", "Remove only this email address")
	deleteCmd.MarkFlagsMutuallyExclusive("phone", "email")
	rootCmd.AddCommand(deleteCmd)
}

var addCmd = &cobra.Command{
	Use:   "add <name> [phone...]",
	Short: "Add a contact or extend an existing one",
	Long: `Add phone numbers, emails and a birthday to a contact.

The contact is created when it does not exist. Every value is validated
before anything is stored: one bad value leaves the book unchanged.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func runAdd(cmd *cobra.Command, args []string) error {
	name, phones := args[0], args[1:]
	emails, _ := cmd.Flags().GetStringSlice("email")
	birthday, _ := cmd.Flags().GetString("birthday")

	book := mustOpenBook()

	// Build on a copy so a failed value does not leave a half-edited record.
	r, err := contact.NewRecord(name, birthday)
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}
	existing := book.Find(name)
	if existing != nil {
		if r, err = existing.Entry().Record(); err != nil {
			exitWithError(exitCodeFor(err), "%v", err)
		}
		if birthday != "" {
			if err := r.SetBirthday(birthday); err != nil {
				exitWithError(exitCodeFor(err), "%v", err)
			}
		}
	}
	for _, p := range phones {
		if err := r.AddPhone(p); err != nil {
			exitWithError(exitCodeFor(err), "%v", err)
		}
	}
	for _, e := range emails {
		if err := r.AddEmail(e); err != nil {
			exitWithError(exitCodeFor(err), "%v", err)
		}
	}

	book.AddRecord(r)
	mustSaveBook(book)

	status := "created"
	if existing != nil {
		status = "updated"
	}
	entry := r.Entry()
	if humanOutput {
		outputHuman("%s %s\n", status, name)
		return nil
	}
	return outputJSON(StatusResponse{Status: status, Contact: &entry})
}

var changeCmd = &cobra.Command{
	Use:   "change <name> <old> <new>",
	Short: "Replace a phone number or email",
	Long: `Replace every occurrence of <old> with <new> on a contact.

Use --email to edit email addresses. The new value is validated first;
if <old> is not on the contact nothing changes.`,
	Args: cobra.ExactArgs(3),
	RunE: runChange,
}

func runChange(cmd *cobra.Command, args []string) error {
	name, from, to := args[0], args[1], args[2]
	isEmail, _ := cmd.Flags().GetBool("email")

	book := mustOpenBook()
	r := mustFindRecord(book, name)

	var err error
	if isEmail {
		err = r.EditEmail(from, to)
	} else {
		err = r.EditPhone(from, to)
	}
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}
	mustSaveBook(book)

	entry := r.Entry()
	if humanOutput {
		outputHuman("changed %s to %s for %s\n", from, to, name)
		return nil
	}
	return outputJSON(StatusResponse{Status: "changed", Contact: &entry})
}

var phoneCmd = &cobra.Command{
	Use:   "phone <name>",
	Short: "Show a contact",
	Args:  cobra.ExactArgs(1),
	RunE:  runPhone,
}

func runPhone(cmd *cobra.Command, args []string) error {
	book := mustOpenBook()
	r := mustFindRecord(book, args[0])

	res := newContactResult(r, time.Now())
	if humanOutput {
		outputHuman("%s", formatContactHuman(res))
		return nil
	}
	return outputJSON(res)
}

var emailCmd = &cobra.Command{
	Use:   "email <name> <address>",
	Short: "Add an email address to a contact",
	Args:  cobra.ExactArgs(2),
	RunE:  runEmail,
}

func runEmail(cmd *cobra.Command, args []string) error {
	book := mustOpenBook()
	r := mustFindRecord(book, args[0])
	if err := r.AddEmail(args[1]); err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}
	mustSaveBook(book)

	entry := r.Entry()
	if humanOutput {
		outputHuman("added %s to %s\n", args[1], args[0])
		return nil
	}
	return outputJSON(StatusResponse{Status: "updated", Contact: &entry})
}

// BirthdayResult is the response for the birthday command.
type BirthdayResult struct {
	Name           string `json:"name"`
	Birthday       string `json:"birthday,omitempty"`
	DaysToBirthday *int   `json:"days_to_birthday,omitempty"`
	Note           string `json:"note,omitempty"`
}

var birthdayCmd = &cobra.Command{
	Use:   "birthday <name> [YYYY-MM-DD]",
	Short: "Set or show a contact's birthday",
	Long: `With a date, store it as the contact's birthday. In every case report
the number of days until the next one. Use --clear to remove it.

A date that matches YYYY-MM-DD but is not on the calendar (2023-02-30) is
stored; it has no countdown.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runBirthday,
}

func runBirthday(cmd *cobra.Command, args []string) error {
	clearIt, _ := cmd.Flags().GetBool("clear")

	book := mustOpenBook()
	r := mustFindRecord(book, args[0])

	switch {
	case clearIt:
		r.ClearBirthday()
		mustSaveBook(book)
	case len(args) == 2:
		if err := r.SetBirthday(args[1]); err != nil {
			exitWithError(exitCodeFor(err), "%v", err)
		}
		mustSaveBook(book)
	}

	// A stored date that is not on the calendar has no countdown; the command
	// still succeeds because the book is consistent.
	res := BirthdayResult{Name: r.Name()}
	res.Birthday, _ = r.Birthday()
	days, ok, err := r.DaysUntilBirthday(time.Now())
	switch {
	case err != nil:
		res.Note = "not a real calendar date"
	case ok:
		res.DaysToBirthday = &days
	}

	if humanOutput {
		switch {
		case res.DaysToBirthday != nil:
			outputHuman("There are %d days to next birthday.\n", days)
		case res.Note != "":
			outputHuman("%s's birthday %s is %s\n", r.Name(), res.Birthday, res.Note)
		default:
			outputHuman("%s has no birthday set\n", r.Name())
		}
		return nil
	}
	return outputJSON(res)
}

var deleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a contact, or one of its values",
	Long: `Delete a contact from the book.

With --phone or --email only that value is removed and the contact stays.
Deleting a contact that does not exist is not an error.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	name := args[0]
	phone, _ := cmd.Flags().GetString("phone")
	email, _ := cmd.Flags().GetString("email")

	book := mustOpenBook()

	if phone == "" && email == "" {
		existed := book.Find(name) != nil
		book.Delete(name)
		mustSaveBook(book)

		status := "deleted"
		if !existed {
			status = "absent"
		}
		if humanOutput {
			outputHuman("%s %s\n", status, name)
			return nil
		}
		return outputJSON(StatusResponse{Status: status})
	}

	r := mustFindRecord(book, name)
	if phone != "" {
		r.RemovePhone(phone)
	} else {
		r.RemoveEmail(email)
	}
	mustSaveBook(book)

	entry := r.Entry()
	if humanOutput {
		outputHuman("updated %s\n", name)
		return nil
	}
	return outputJSON(StatusResponse{Status: "updated", Contact: &entry})
}
