package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/frahmantamala/docdraft/internal/auth"
	"github.com/frahmantamala/docdraft/internal/core/common/txn"
	permissionDatamodel "github.com/frahmantamala/docdraft/internal/core/datamodel/permission"
	roleDatamodel "github.com/frahmantamala/docdraft/internal/core/datamodel/role"
	userDatamodel "github.com/frahmantamala/docdraft/internal/core/datamodel/user"
	organizationPostgres "github.com/frahmantamala/docdraft/internal/organization/postgres"
	"github.com/frahmantamala/docdraft/internal/permission"
	permissionPostgres "github.com/frahmantamala/docdraft/internal/permission/postgres"
	"github.com/frahmantamala/docdraft/pkg/logger"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const administratorRole = "Administrator"

var (
	seedOrgName    string
	seedAdminEmail string
	seedAdminName  string
)

// seedCmd installs the permission catalog, the first organization, its
// super-admin and an Administrator role holding every permission. Running it
// twice changes nothing.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the permission catalog and the first super-admin",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig()
		lg := logger.LoggerWrapper()
		ctx := context.Background()

		password := os.Getenv("SEED_ADMIN_PASSWORD")
		if password == "" {
			log.Fatal("SEED_ADMIN_PASSWORD must be set")
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		gormDB, err := initGorm(db)
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		if err := permission.NewService(permissionPostgres.NewPermissionRepository(gormDB), lg).SeedBuiltins(ctx); err != nil {
			log.Fatalf("failed to seed permissions: %v", err)
		}

		org, err := organizationPostgres.NewOrganizationRepository(gormDB).Bootstrap(ctx, seedOrgName)
		if err != nil {
			log.Fatalf("failed to bootstrap organization: %v", err)
		}

		digest, err := auth.NewHasher(cfg.Security.BCryptCost).Hash(password)
		if err != nil {
			log.Fatalf("failed to hash password: %v", err)
		}

		admin, err := seedSuperAdmin(ctx, gormDB, org.ID, digest)
		if err != nil {
			log.Fatalf("failed to seed super-admin: %v", err)
		}

		fmt.Printf("Seeded organization %q (id %d) and super-admin %s (id %d)\n", org.Name, org.ID, admin.Email, admin.ID)
	},
}

// seedSuperAdmin is the only code path that stores is_super_admin = true.
func seedSuperAdmin(ctx context.Context, db *gorm.DB, orgID int64, digest string) (*userDatamodel.User, error) {
	var admin userDatamodel.User
	err := txn.Run(ctx, db, func(tx *gorm.DB) error {
		err := tx.Where(userDatamodel.User{Email: strings.ToLower(strings.TrimSpace(seedAdminEmail))}).
			Attrs(userDatamodel.User{
				OrgID:        orgID,
				Name:         seedAdminName,
				PasswordHash: digest,
				Status:       userDatamodel.StatusActive,
				IsSuperAdmin: true,
			}).
			FirstOrCreate(&admin).Error
		if err != nil {
			return err
		}

		var adminRole roleDatamodel.Role
		err = tx.Where(roleDatamodel.Role{OrgID: orgID, Name: administratorRole}).
			Attrs(roleDatamodel.Role{Description: "Holds every permission of the catalog"}).
			FirstOrCreate(&adminRole).Error
		if err != nil {
			return err
		}

		var permissionIDs []int64
		if err := tx.Model(&permissionDatamodel.Permission{}).Pluck("id", &permissionIDs).Error; err != nil {
			return err
		}
		grants := make([]roleDatamodel.RolePermission, 0, len(permissionIDs))
		for _, id := range permissionIDs {
			grants = append(grants, roleDatamodel.RolePermission{RoleID: adminRole.ID, PermissionID: id})
		}
		if len(grants) > 0 {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&grants).Error; err != nil {
				return err
			}
		}

		if admin.OrgID != orgID {
			return nil
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&roleDatamodel.UserRole{UserID: admin.ID, RoleID: adminRole.ID}).Error
	})
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func init() {
	seedCmd.Flags().StringVar(&seedOrgName, "org", "Default", "name of the first organization")
	seedCmd.Flags().StringVar(&seedAdminEmail, "admin-email", "admin@docdraft.local", "email of the super-admin")
	seedCmd.Flags().StringVar(&seedAdminName, "admin-name", "Administrator", "display name of the super-admin")
}
