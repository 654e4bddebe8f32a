package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lapdeck/lapdeck/internal/api"
	"github.com/lapdeck/lapdeck/internal/tui"
)

var laptopCmd = &cobra.Command{
	Use:   "laptop",
	Short: "Browse and edit the laptop catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// laptopListCmd prints the catalog
var laptopListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := requireAuth(cmd.Context()); err != nil {
			return err
		}

		client, err := getClient()
		if err != nil {
			return err
		}

		laptops, err := client.ListLaptops(cmd.Context())
		if err != nil {
			return err
		}

		if len(laptops) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "The catalog is empty.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tBRAND\tMODEL\tPRICE")
		for _, l := range laptops {
			fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\n", l.ID, l.Brand, l.Model, l.Price)
		}
		return w.Flush()
	},
}

// laptopShowCmd prints one catalog entry
var laptopShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a catalog entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := requireAuth(cmd.Context()); err != nil {
			return err
		}

		client, err := getClient()
		if err != nil {
			return err
		}

		laptop, err := client.GetLaptop(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "ID:          %s\n", laptop.ID)
		fmt.Fprintf(cmd.OutOrStdout(), "Brand:       %s\n", laptop.Brand)
		fmt.Fprintf(cmd.OutOrStdout(), "Model:       %s\n", laptop.Model)
		fmt.Fprintf(cmd.OutOrStdout(), "Price:       %.2f\n", laptop.Price)
		if laptop.Description != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Description: %s\n", laptop.Description)
		}
		return nil
	},
}

func laptopInputFromFlags(cmd *cobra.Command) api.LaptopInput {
	brand, _ := cmd.Flags().GetString("brand")
	model, _ := cmd.Flags().GetString("model")
	price, _ := cmd.Flags().GetFloat64("price")
	description, _ := cmd.Flags().GetString("description")
	return api.LaptopInput{Brand: brand, Model: model, Price: price, Description: description}
}

// laptopAddCmd creates a catalog entry
var laptopAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a catalog entry",
	Long: `Add a catalog entry.

Examples:
  lapdeck laptop add --brand Lenovo --model T14 --price 1199`,
	RunE: func(cmd *cobra.Command, args []string) error {
		input := laptopInputFromFlags(cmd)
		if input.Brand == "" || input.Model == "" {
			return fmt.Errorf("--brand and --model are required")
		}

		if _, err := requireAuth(cmd.Context()); err != nil {
			return err
		}

		client, err := getClient()
		if err != nil {
			return err
		}

		laptop, err := client.CreateLaptop(cmd.Context(), input)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s (%s)\n", laptop.Brand, laptop.Model, laptop.ID)
		return nil
	},
}

// laptopEditCmd updates a catalog entry
var laptopEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a catalog entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := requireAuth(cmd.Context()); err != nil {
			return err
		}

		client, err := getClient()
		if err != nil {
			return err
		}

		// Start from the current entry so omitted flags keep their value.
		current, err := client.GetLaptop(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		input := api.LaptopInput{
			Brand:       current.Brand,
			Model:       current.Model,
			Price:       current.Price,
			Description: current.Description,
		}
		if cmd.Flags().Changed("brand") {
			input.Brand, _ = cmd.Flags().GetString("brand")
		}
		if cmd.Flags().Changed("model") {
			input.Model, _ = cmd.Flags().GetString("model")
		}
		if cmd.Flags().Changed("price") {
			input.Price, _ = cmd.Flags().GetFloat64("price")
		}
		if cmd.Flags().Changed("description") {
			input.Description, _ = cmd.Flags().GetString("description")
		}

		laptop, err := client.UpdateLaptop(cmd.Context(), args[0], input)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Updated %s %s (%s)\n", laptop.Brand, laptop.Model, laptop.ID)
		return nil
	},
}

// laptopRemoveCmd deletes a catalog entry
var laptopRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a catalog entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			confirmed, err := tui.PromptForConfirmation(fmt.Sprintf("Remove laptop %s?", args[0]), false)
			if err != nil {
				return err
			}
			if !confirmed {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}
		}

		if _, err := requireAuth(cmd.Context()); err != nil {
			return err
		}

		client, err := getClient()
		if err != nil {
			return err
		}

		if err := client.DeleteLaptop(cmd.Context(), args[0]); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(laptopCmd)

	laptopCmd.AddCommand(laptopListCmd)
	laptopCmd.AddCommand(laptopShowCmd)
	laptopCmd.AddCommand(laptopAddCmd)
	laptopCmd.AddCommand(laptopEditCmd)
	laptopCmd.AddCommand(laptopRemoveCmd)

	for _, c := range []*cobra.Command{laptopAddCmd, laptopEditCmd} {
		c.Flags().String("brand", "", "Brand name")
		c.Flags().String("model", "", "Model name")
		c.Flags().Float64("price", 0, "Price")
		c.Flags().String("description", "", "Description")
	}
	laptopRemoveCmd.Flags().Bool("yes", false, "Skip the confirmation prompt")
}
