// Package rules implements the rules command and its list, add, update,
// delete and seed subcommands.
package rules

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"bscpro/bank-export/cmd/root"
	"bscpro/bank-export/internal/container"
	"bscpro/bank-export/internal/logging"
	"bscpro/bank-export/internal/models"
	"bscpro/bank-export/internal/store"
)

// ruleFlags holds the rule fields accepted by add and update.
type ruleFlags struct {
	keyword   string
	grootboek string
	btw       string
	category  string
	match     string
	priority  int
	active    bool
}

var (
	showAll     bool
	addFlags    ruleFlags
	updateFlags ruleFlags
)

// Cmd represents the rules command
var Cmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage categorization rules",
	Long:  `Rules lists, adds, changes and deactivates the keyword rules of a user.`,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the rules of a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		return list(cmd.Context(), root.AppContainer, root.UserID(root.AppContainer, root.SharedFlags.User), showAll, cmd.OutOrStdout())
	},
}

var addCmd = &cobra.Command{
	Use:   "add KEYWORD",
	Short: "Add a rule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addFlags.keyword = args[0]
		patch := addFlags.patch(cmd.Flags(), true)
		created, err := add(cmd.Context(), root.AppContainer, root.UserID(root.AppContainer, root.SharedFlags.User), patch)
		if err != nil {
			return err
		}
		cmd.Println(created.ID)
		return nil
	},
}

var updateCmd = &cobra.Command{
	Use:   "update ID",
	Short: "Change the fields of a rule",
	Long: `Update changes only the fields whose flags are given; the other fields
keep their value. Use --active=false to deactivate or --active to reactivate.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		updated, err := update(cmd.Context(), root.AppContainer,
			root.UserID(root.AppContainer, root.SharedFlags.User), args[0], updateFlags.patch(cmd.Flags(), false))
		if err != nil {
			return err
		}
		return writeTable(cmd.OutOrStdout(), updated)
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Deactivate a rule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return root.AppContainer.GetRuleStore().DeleteRule(cmd.Context(), root.UserID(root.AppContainer, root.SharedFlags.User), args[0])
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Copy the default rules to a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		added, err := seed(cmd.Context(), root.AppContainer, root.UserID(root.AppContainer, root.SharedFlags.User))
		if err != nil {
			return err
		}
		cmd.Printf("%d rules added\n", added)
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVar(&showAll, "all", false, "Include deactivated rules")

	addFlags.register(addCmd.Flags())
	_ = addCmd.MarkFlagRequired("grootboek")

	updateFlags.register(updateCmd.Flags())
	updateCmd.Flags().StringVarP(&updateFlags.keyword, "keyword", "k", "", "Keyword")
	updateCmd.Flags().BoolVar(&updateFlags.active, "active", true, "Whether the rule is active")

	Cmd.AddCommand(listCmd, addCmd, updateCmd, deleteCmd, seedCmd)
}

func (f *ruleFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.grootboek, "grootboek", "g", "", "Ledger account code")
	fs.StringVarP(&f.btw, "btw", "b", "21", "BTW rate: 0, 9, 21 or vrijgesteld")
	fs.StringVarP(&f.category, "category", "c", "", "Category name")
	fs.StringVarP(&f.match, "match", "m", string(models.MatchContains), "Match type: contains, exact, starts_with, ends_with or regex")
	fs.IntVarP(&f.priority, "priority", "p", models.DefaultRulePriority, "Priority; higher wins")
}

// patch turns the flags into a rule patch. With all set every rule field is
// taken from the flags (defaults included); otherwise only flags the user
// changed are.
func (f *ruleFlags) patch(fs *pflag.FlagSet, all bool) store.RulePatch {
	set := func(name string) bool { return all || fs.Changed(name) }

	var p store.RulePatch
	if set("keyword") {
		keyword := f.keyword
		p.Keyword = &keyword
	}
	if set("grootboek") {
		grootboek := f.grootboek
		p.GrootboekCode = &grootboek
	}
	if set("btw") {
		btw := f.btw
		p.BTWPercentage = &btw
	}
	if set("category") {
		category := f.category
		p.CategoryName = &category
	}
	if set("match") {
		match := models.MatchType(f.match)
		p.MatchType = &match
	}
	if set("priority") {
		priority := f.priority
		p.Priority = &priority
	}
	if fs.Changed("active") {
		active := f.active
		p.IsActive = &active
	}
	return p
}

func list(ctx context.Context, c *container.Container, userID string, all bool, w io.Writer) error {
	repo := c.GetRuleStore()
	rules, err := repo.ListActiveRules(ctx, userID)
	if all {
		rules, err = repo.ListRules(ctx, userID)
	}
	if err != nil {
		return err
	}
	return writeTable(w, rules...)
}

func writeTable(w io.Writer, rules ...models.Rule) error {
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tKEYWORD\tMATCH\tGROOTBOEK\tBTW\tCATEGORIE\tPRIORITEIT\tACTIEF")
	for _, r := range rules {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			r.ID, r.Keyword, r.EffectiveMatchType(), r.GrootboekCode, r.BTWPercentage,
			r.CategoryName, r.Priority, strconv.FormatBool(r.IsActive))
	}
	_ = tw.Flush()
	_, err := w.Write(buf.Bytes())
	return err
}

func add(ctx context.Context, c *container.Container, userID string, patch store.RulePatch) (models.Rule, error) {
	created, err := c.GetRuleStore().AddRule(ctx, patch.NewRule(userID))
	if err != nil {
		return models.Rule{}, err
	}
	c.GetLogger().Info("Rule added",
		logging.Field{Key: logging.FieldRuleID, Value: created.ID},
		logging.Field{Key: logging.FieldUserID, Value: created.UserID})
	return created, nil
}

func update(ctx context.Context, c *container.Container, userID, id string, patch store.RulePatch) (models.Rule, error) {
	updated, err := c.GetRuleStore().UpdateRule(ctx, userID, id, patch)
	if err != nil {
		return models.Rule{}, err
	}
	c.GetLogger().Info("Rule updated",
		logging.Field{Key: logging.FieldRuleID, Value: updated.ID},
		logging.Field{Key: logging.FieldUserID, Value: userID})
	return updated, nil
}

func seed(ctx context.Context, c *container.Container, userID string) (int, error) {
	added, err := c.GetRuleStore().SeedDefaults(ctx, userID)
	if err != nil {
		return 0, err
	}
	c.GetLogger().Info("Seeded default rules",
		logging.Field{Key: logging.FieldUserID, Value: userID},
		logging.Field{Key: logging.FieldCount, Value: added})
	return added, nil
}
