package cli

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/The-Dudeski/contactd/pkg/contact"
)

var (
	addPhone       string
	addEmail       string
	addAddress     string
	addTags        []string
	addDepartments []string
	listLimit      int
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:     "add <name>",
	Short:   "Add or update a contact",
	Example: `  contactctl add "Alice Pauline" --phone 94351253 --email alice@example.com --tag dev --department engineering`,
	Args:    cobra.ExactArgs(1),
	RunE:    runAdd,
}

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List contacts",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

// rmCmd represents the rm command
var rmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove a contact by id",
	Args:  cobra.ExactArgs(1),
	RunE:  runRm,
}

func init() {
	rootCmd.AddCommand(addCmd, listCmd, rmCmd)

	addCmd.Flags().StringVar(&addPhone, "phone", "", "phone number (digits only)")
	addCmd.Flags().StringVar(&addEmail, "email", "", "email address")
	addCmd.Flags().StringVar(&addAddress, "address", "", "postal address")
	addCmd.Flags().StringArrayVar(&addTags, "tag", nil, "tag label (repeatable)")
	addCmd.Flags().StringArrayVar(&addDepartments, "department", nil, "department label (repeatable)")

	listCmd.Flags().IntVar(&listLimit, "limit", 0, "maximum number of contacts to list")
}

func runAdd(cmd *cobra.Command, args []string) error {
	c := contact.Contact{
		Name:        args[0],
		Phone:       addPhone,
		Email:       addEmail,
		Address:     addAddress,
		Tags:        addTags,
		Departments: addDepartments,
	}
	// Validate locally for a fast, friendly error.
	if err := c.Validate(); err != nil {
		return err
	}
	var out struct {
		Stored   int               `json:"stored"`
		Contacts []contact.Contact `json:"contacts"`
	}
	if err := postJSON("/api/v1/contacts", c, &out); err != nil {
		return err
	}
	if len(out.Contacts) == 1 {
		fmt.Printf("stored %s (%s)\n", out.Contacts[0].Name, out.Contacts[0].ID)
	}
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	path := "/api/v1/contacts"
	if listLimit > 0 {
		path += "?limit=" + strconv.Itoa(listLimit)
	}
	var out []contact.Contact
	if err := getJSON(path, &out); err != nil {
		return err
	}
	printContacts(os.Stdout, out)
	return nil
}

func runRm(cmd *cobra.Command, args []string) error {
	var out struct {
		Deleted string `json:"deleted"`
	}
	if err := deleteJSON("/api/v1/contacts?id="+url.QueryEscape(args[0]), &out); err != nil {
		return err
	}
	fmt.Printf("deleted %s\n", out.Deleted)
	return nil
}

func printContacts(w io.Writer, contacts []contact.Contact) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPHONE\tEMAIL\tTAGS\tDEPARTMENTS")
	for _, c := range contacts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			c.ID, c.Name, c.Phone, c.Email,
			strings.Join(c.Tags, ","), strings.Join(c.Departments, ","))
	}
	_ = tw.Flush()
}
