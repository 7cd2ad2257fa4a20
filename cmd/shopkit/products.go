package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shopkit-dev/shopkit/pkg/api"
	"github.com/shopkit-dev/shopkit/pkg/guard"
)

func productsCmd(cfg envConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Browse and manage the product catalog",
	}
	cmd.AddCommand(productsListCmd(cfg), productsAddCmd(cfg))
	return cmd
}

func productsListCmd(cfg envConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			products, err := app.Client.Products(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tPRICE\tSKU\tSTOCK\tAVAILABLE")
			for _, p := range products {
				fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%d\t%v\n",
					p.ID, p.Name, p.Price, p.SKU, p.StockQuantity, p.IsAvailable)
			}
			return w.Flush()
		},
	}
}

func productsAddCmd(cfg envConfig) *cobra.Command {
	var req api.CreateProductRequest

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a product (admin only)",
		Long: `Add a product to the catalog. This is the admin area: the persisted
session is restored and verified first, and the command refuses unless the
resolved profile has the admin role.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			// The CLI's navigation side effect is a hint to the user.
			nav := guard.NavigatorFunc(func(path string) {
				switch path {
				case guard.LoginPath:
					fmt.Fprintln(os.Stderr, `Run "shopkit login" first.`)
				case guard.HomePath:
					fmt.Fprintln(os.Stderr, `Try "shopkit products list" instead.`)
				}
			})

			g := app.Guard(api.RoleAdmin, nav)
			g.Mount(cmd.Context())
			state, err := g.Wait(cmd.Context())
			if err != nil {
				return err
			}

			switch state {
			case guard.StateRedirectingToLogin:
				return fmt.Errorf("authentication required")
			case guard.StateRedirectingToHome:
				return fmt.Errorf("admin privileges required")
			}

			product, err := app.Client.CreateProduct(cmd.Context(), req)
			if err != nil {
				return err
			}

			fmt.Printf("Created product %d (%s, sku %s)\n", product.ID, product.Name, product.SKU)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "Product name")
	cmd.Flags().Int64Var(&req.Price, "price", 0, "Price in the smallest currency unit")
	cmd.Flags().Int64Var(&req.CategoryID, "category", 0, "Category ID")
	cmd.Flags().StringVar(&req.SKU, "sku", "", "Stock keeping unit")
	cmd.Flags().Int64Var(&req.StockQuantity, "stock", 0, "Initial stock quantity")
	cmd.Flags().BoolVar(&req.IsAvailable, "available", true, "Whether the product is available")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("price")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("sku")

	return cmd
}
