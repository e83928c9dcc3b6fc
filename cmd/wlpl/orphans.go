package main

import (
	"fmt"
	"text/tabwriter"

	shopRepoPkg "github.com/fekuna/wlpl-service/internal/shopping/repository"
	shopUCPkg "github.com/fekuna/wlpl-service/internal/shopping/usecase"
	"github.com/fekuna/wlpl-service/pkg/cache"
	"github.com/fekuna/wlpl-service/pkg/i18n"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	orphansUser   string
	orphansRepair bool
)

var orphansCmd = &cobra.Command{
	Use:   "orphans",
	Short: "Report shopping items that are neither in stock nor on the list",
	Long: "orphans lists items with no stock, no quantity and no place on the shopping list.\n" +
		"With --repair they are put back on the list with high priority.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		appLogger := newLogger(cfg)
		defer appLogger.Sync()

		db, err := openPostgres(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		redisClient, err := cache.NewRedisClient(&cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer redisClient.Close()

		translator, err := i18n.New()
		if err != nil {
			return err
		}

		// Repairs only touch storage, so no product lookup or classifier is needed.
		uc := shopUCPkg.NewShoppingUseCase(shopRepoPkg.NewPGRepository(db), redisClient, nil, nil, translator, appLogger)
		out := cmd.OutOrStdout()

		if orphansRepair {
			res, err := uc.RepairAllOrphans(cmd.Context(), orphansUser)
			if err != nil {
				return err
			}
			appLogger.Info("Orphans repaired", zap.String("user_id", orphansUser), zap.Int("count", res.Repaired))
			fmt.Fprintln(out, res.Message)
			return nil
		}

		items, err := uc.ListOrphans(cmd.Context(), orphansUser)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Fprintln(out, "No orphaned items")
			return nil
		}
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tUSER\tPRODUCT\tUPDATED")
		for _, it := range items {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", it.ID, it.UserID, it.ProductName, it.UpdatedAt.Format("2006-01-02 15:04"))
		}
		return tw.Flush()
	},
}

func init() {
	orphansCmd.Flags().StringVar(&orphansUser, "user", "", "Limit to one user (default: all users)")
	orphansCmd.Flags().BoolVar(&orphansRepair, "repair", false, "Move orphaned items back to the shopping list")
	rootCmd.AddCommand(orphansCmd)
}
