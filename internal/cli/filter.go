package cli

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/The-Dudeski/contactd/pkg/contact"
	"github.com/The-Dudeski/contactd/pkg/filterexpr"
	"github.com/The-Dudeski/contactd/pkg/predicate"
)

var (
	filterName      string
	filterLimit     int
	filterHighlight bool
)

// filterCmd represents the filter command
var filterCmd = &cobra.Command{
	Use:   "filter [expression]",
	Short: "Filter contacts with a predicate expression or a saved filter",
	Long: `Filter evaluates one predicate over every contact on the server.

The expression has the form "component: pattern" or
"component|mode: pattern". Components: name, phone, email, address,
tag, department. Modes: is, isnt, has, hasnt, startswith, endswith,
word, noword. The mode defaults to "is".`,
	Example: `  contactctl filter "name|has: ali"
  contactctl filter "tag|word: cs dev" --highlight
  contactctl filter --name engineering`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFilter,
}

// filtersCmd represents the filters command
var filtersCmd = &cobra.Command{
	Use:   "filters",
	Short: "List the saved filters on the server",
	Args:  cobra.NoArgs,
	RunE:  runFilters,
}

func init() {
	rootCmd.AddCommand(filterCmd, filtersCmd)

	filterCmd.Flags().StringVar(&filterName, "name", "", "evaluate a saved filter instead of an expression")
	filterCmd.Flags().IntVar(&filterLimit, "limit", 0, "maximum number of matches")
	filterCmd.Flags().BoolVar(&filterHighlight, "highlight", false, "mark the matched spans in each hit")
}

func runFilter(cmd *cobra.Command, args []string) error {
	q := url.Values{}
	switch {
	case len(args) == 1 && filterName != "":
		return fmt.Errorf("pass either an expression or --name, not both")
	case len(args) == 1:
		// Validate locally for a fast, friendly error.
		if _, err := filterexpr.Parse(args[0]); err != nil {
			return err
		}
		q.Set("q", args[0])
	case filterName != "":
		q.Set("name", filterName)
	default:
		return fmt.Errorf("missing filter: pass an expression or --name")
	}
	if filterLimit > 0 {
		q.Set("limit", strconv.Itoa(filterLimit))
	}
	if filterHighlight {
		q.Set("highlight", "1")
	}

	var out struct {
		Filter   string `json:"filter"`
		Scanned  int    `json:"scanned"`
		Skipped  int    `json:"skipped"`
		Matched  int    `json:"matched"`
		Contacts []struct {
			contact.Contact
			Highlights []predicate.ValueSpans `json:"highlights"`
		} `json:"contacts"`
	}
	if err := getJSON("/api/v1/contacts/filter?"+q.Encode(), &out); err != nil {
		return err
	}

	fmt.Printf("%s: %d of %d matched\n", out.Filter, out.Matched, out.Scanned)
	plain := make([]contact.Contact, 0, len(out.Contacts))
	for _, m := range out.Contacts {
		plain = append(plain, m.Contact)
	}
	printContacts(os.Stdout, plain)

	if filterHighlight {
		for _, m := range out.Contacts {
			for _, hl := range m.Highlights {
				fmt.Printf("  %s: %s\n", m.Name, markSpans(hl))
			}
		}
	}
	return nil
}

// markSpans renders a value with its matched spans bracketed, e.g.
// "team [led]".
func markSpans(v predicate.ValueSpans) string {
	var b strings.Builder
	last := 0
	for _, sp := range v.Spans {
		if sp.Start < last || sp.End > len(v.Value) {
			continue
		}
		b.WriteString(v.Value[last:sp.Start])
		b.WriteString("[")
		b.WriteString(v.Value[sp.Start:sp.End])
		b.WriteString("]")
		last = sp.End
	}
	b.WriteString(v.Value[last:])
	return b.String()
}

func runFilters(cmd *cobra.Command, args []string) error {
	var out struct {
		Filters []struct {
			Name        string `json:"name"`
			Description string `json:"description"`
			Filter      string `json:"filter"`
		} `json:"filters"`
	}
	if err := getJSON("/api/v1/filters", &out); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tFILTER\tDESCRIPTION")
	for _, f := range out.Filters {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", f.Name, f.Filter, f.Description)
	}
	return tw.Flush()
}
