package role_test

import (
	"context"
	"log/slog"
	"os"
	"sync"

	apperrors "github.com/frahmantamala/docdraft/internal"
	roleDatamodel "github.com/frahmantamala/docdraft/internal/core/datamodel/role"
	"github.com/frahmantamala/docdraft/internal/core/events"
	"github.com/frahmantamala/docdraft/internal/core/scope"
	"github.com/frahmantamala/docdraft/internal/role"
	rolePostgres "github.com/frahmantamala/docdraft/internal/role/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

func validationFields(err error) []string {
	appErr, ok := apperrors.IsAppError(err)
	Expect(ok).To(BeTrue())
	Expect(appErr.Type).To(Equal(apperrors.ErrorTypeValidation))
	details, ok := appErr.Details.(apperrors.ValidationErrors)
	Expect(ok).To(BeTrue())
	fields := make([]string, len(details.Errors))
	for i, e := range details.Errors {
		fields[i] = e.Field
	}
	return fields
}

var _ = Describe("Role Service", func() {
	var (
		db        *gorm.DB
		service   *role.Service
		publisher *recordingPublisher
		ctx       context.Context

		acmeAdmin   = scope.Actor{UserID: 10, OrgID: 1}
		globexAdmin = scope.Actor{UserID: 20, OrgID: 2}
		superAdmin  = scope.Actor{UserID: 1, OrgID: 1, IsSuperAdmin: true}
	)

	BeforeEach(func() {
		ctx = context.Background()
		db = openTestDB()
		publisher = &recordingPublisher{}
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = role.NewService(rolePostgres.NewRoleRepository(db), publisher, slogger)
	})

	Describe("CreateRole", func() {
		It("creates a role in the actor's organization with catalog keys only", func() {
			created, err := service.CreateRole(ctx, acmeAdmin, role.CreateRoleDTO{
				Name:        "Editor",
				Description: "Writes documents",
				Permissions: []string{"docs:write", "docs:read", "docs:read", "docs:publish"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(created.ID).To(BeNumerically(">", 0))
			Expect(created.OrgID).To(Equal(int64(1)))
			Expect(created.Permissions).To(Equal([]string{"docs:read", "docs:write"}))
			Expect(publisher.types()).To(Equal([]string{events.EventTypeRoleCreated}))
		})

		It("rejects an empty name", func() {
			_, err := service.CreateRole(ctx, acmeAdmin, role.CreateRoleDTO{Name: "  "})
			Expect(validationFields(err)).To(ConsistOf("name"))
			Expect(publisher.types()).To(BeEmpty())
		})

		It("rejects a duplicate name within the organization", func() {
			_, err := service.CreateRole(ctx, acmeAdmin, role.CreateRoleDTO{Name: "Editor"})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.CreateRole(ctx, acmeAdmin, role.CreateRoleDTO{Name: "Editor"})
			Expect(validationFields(err)).To(ConsistOf("name"))
		})

		It("allows the same name in another organization", func() {
			_, err := service.CreateRole(ctx, acmeAdmin, role.CreateRoleDTO{Name: "Editor"})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.CreateRole(ctx, globexAdmin, role.CreateRoleDTO{Name: "Editor"})
			Expect(err).NotTo(HaveOccurred())
		})

		It("ignores a target organization requested by a regular user", func() {
			target := int64(2)
			created, err := service.CreateRole(ctx, acmeAdmin, role.CreateRoleDTO{Name: "Editor", OrgID: &target})
			Expect(err).NotTo(HaveOccurred())
			Expect(created.OrgID).To(Equal(int64(1)))
		})

		It("lets a super-admin create in another organization", func() {
			target := int64(2)
			created, err := service.CreateRole(ctx, superAdmin, role.CreateRoleDTO{Name: "Editor", OrgID: &target})
			Expect(err).NotTo(HaveOccurred())
			Expect(created.OrgID).To(Equal(int64(2)))
		})

		It("reports a missing target organization as not found", func() {
			target := int64(999)
			_, err := service.CreateRole(ctx, superAdmin, role.CreateRoleDTO{Name: "Editor", OrgID: &target})
			Expect(err).To(MatchError(apperrors.ErrOrganizationNotFound))

			var count int64
			Expect(db.Model(&roleDatamodel.Role{}).Count(&count).Error).To(Succeed())
			Expect(count).To(BeZero())
		})
	})

	Describe("ListRoles", func() {
		BeforeEach(func() {
			for _, name := range []string{"Reviewer", "Editor"} {
				_, err := service.CreateRole(ctx, acmeAdmin, role.CreateRoleDTO{Name: name})
				Expect(err).NotTo(HaveOccurred())
			}
			_, err := service.CreateRole(ctx, globexAdmin, role.CreateRoleDTO{Name: "Owner"})
			Expect(err).NotTo(HaveOccurred())
		})

		It("lists only the actor's organization ordered by name", func() {
			roles, err := service.ListRoles(ctx, acmeAdmin)
			Expect(err).NotTo(HaveOccurred())
			Expect(roles).To(HaveLen(2))
			Expect(roles[0].Name).To(Equal("Editor"))
			Expect(roles[1].Name).To(Equal("Reviewer"))
		})

		It("lists every organization for a super-admin", func() {
			roles, err := service.ListRoles(ctx, superAdmin)
			Expect(err).NotTo(HaveOccurred())
			Expect(roles).To(HaveLen(3))
		})
	})

	Describe("ReplacePermissions", func() {
		var editor *role.Role

		BeforeEach(func() {
			var err error
			editor, err = service.CreateRole(ctx, acmeAdmin, role.CreateRoleDTO{
				Name:        "Editor",
				Permissions: []string{"docs:read"},
			})
			Expect(err).NotTo(HaveOccurred())
		})

		It("makes the role hold exactly the catalog keys requested", func() {
			keys := []string{"docs:write", "users:read", "nope:none", "docs:write"}
			updated, err := service.ReplacePermissions(ctx, acmeAdmin, editor.ID, keys)
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Permissions).To(Equal([]string{"docs:write", "users:read"}))

			roles, err := service.ListRoles(ctx, acmeAdmin)
			Expect(err).NotTo(HaveOccurred())
			Expect(roles[0].Permissions).To(Equal([]string{"docs:write", "users:read"}))
		})

		It("is idempotent", func() {
			keys := []string{"docs:share", "docs:read"}
			first, err := service.ReplacePermissions(ctx, acmeAdmin, editor.ID, keys)
			Expect(err).NotTo(HaveOccurred())
			second, err := service.ReplacePermissions(ctx, acmeAdmin, editor.ID, keys)
			Expect(err).NotTo(HaveOccurred())
			Expect(second.Permissions).To(Equal(first.Permissions))
		})

		It("removes every permission when given an empty list", func() {
			updated, err := service.ReplacePermissions(ctx, acmeAdmin, editor.ID, []string{})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Permissions).To(BeEmpty())

			var count int64
			Expect(db.Model(&roleDatamodel.RolePermission{}).Where("role_id = ?", editor.ID).Count(&count).Error).To(Succeed())
			Expect(count).To(BeZero())
		})

		It("treats a role of another organization as not found and leaves it untouched", func() {
			_, err := service.ReplacePermissions(ctx, globexAdmin, editor.ID, []string{})
			Expect(err).To(MatchError(apperrors.ErrRoleNotFound))

			stored, err := service.GetRole(ctx, acmeAdmin, editor.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Permissions).To(Equal([]string{"docs:read"}))
		})

		It("returns the same error for a role that does not exist", func() {
			_, err := service.ReplacePermissions(ctx, acmeAdmin, 4242, []string{})
			Expect(err).To(MatchError(apperrors.ErrRoleNotFound))
		})

		It("lets a super-admin replace permissions in any organization", func() {
			updated, err := service.ReplacePermissions(ctx, superAdmin, editor.ID, []string{"roles:read"})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Permissions).To(Equal([]string{"roles:read"}))
		})

		It("never merges concurrent replacements", func() {
			inputs := [][]string{{"docs:write", "docs:share"}, {"users:read"}}
			errs := make(chan error, 8)
			var wg sync.WaitGroup
			for i := 0; i < 8; i++ {
				wg.Add(1)
				go func(keys []string) {
					defer wg.Done()
					_, err := service.ReplacePermissions(ctx, acmeAdmin, editor.ID, keys)
					errs <- err
				}(inputs[i%2])
			}
			wg.Wait()
			close(errs)
			for err := range errs {
				Expect(err).NotTo(HaveOccurred())
			}

			stored, err := service.GetRole(ctx, acmeAdmin, editor.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Permissions).To(Or(
				Equal([]string{"docs:share", "docs:write"}),
				Equal([]string{"users:read"}),
			))
		})

		It("rolls back the delete when an insert fails", func() {
			Expect(db.Exec(`CREATE TRIGGER reject_share BEFORE INSERT ON role_permissions
				WHEN NEW.permission_id = (SELECT id FROM permissions WHERE "key" = 'docs:share')
				BEGIN SELECT RAISE(ABORT, 'grant rejected'); END`).Error).To(Succeed())

			_, err := service.ReplacePermissions(ctx, acmeAdmin, editor.ID, []string{"docs:write", "docs:share"})
			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(apperrors.ErrorTypeTransactionFailed))
			Expect(appErr.Message).NotTo(ContainSubstring("grant rejected"))

			stored, err := service.GetRole(ctx, acmeAdmin, editor.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Permissions).To(Equal([]string{"docs:read"}))
		})
	})

	Describe("UpdateRole", func() {
		var editor *role.Role

		BeforeEach(func() {
			var err error
			editor, err = service.CreateRole(ctx, acmeAdmin, role.CreateRoleDTO{Name: "Editor", Permissions: []string{"docs:read"}})
			Expect(err).NotTo(HaveOccurred())
		})

		It("renames the role and keeps its permissions", func() {
			name := "Writer"
			updated, err := service.UpdateRole(ctx, acmeAdmin, editor.ID, role.UpdateRoleDTO{Name: &name})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Name).To(Equal("Writer"))
			Expect(updated.Permissions).To(Equal([]string{"docs:read"}))
		})

		It("rejects a blank name", func() {
			name := ""
			_, err := service.UpdateRole(ctx, acmeAdmin, editor.ID, role.UpdateRoleDTO{Name: &name})
			Expect(validationFields(err)).To(ConsistOf("name"))
		})

		It("rejects a name already used in the organization", func() {
			_, err := service.CreateRole(ctx, acmeAdmin, role.CreateRoleDTO{Name: "Reviewer"})
			Expect(err).NotTo(HaveOccurred())

			name := "Reviewer"
			_, err = service.UpdateRole(ctx, acmeAdmin, editor.ID, role.UpdateRoleDTO{Name: &name})
			Expect(validationFields(err)).To(ConsistOf("name"))
		})

		It("treats a role of another organization as not found", func() {
			desc := "hijacked"
			_, err := service.UpdateRole(ctx, globexAdmin, editor.ID, role.UpdateRoleDTO{Description: &desc})
			Expect(err).To(MatchError(apperrors.ErrRoleNotFound))
		})
	})

	Describe("DeleteRole", func() {
		It("removes the role with its grants and assignments", func() {
			editor, err := service.CreateRole(ctx, acmeAdmin, role.CreateRoleDTO{Name: "Editor", Permissions: []string{"docs:read"}})
			Expect(err).NotTo(HaveOccurred())
			Expect(db.Create(&roleDatamodel.UserRole{UserID: 99, RoleID: editor.ID}).Error).To(Succeed())

			Expect(service.DeleteRole(ctx, acmeAdmin, editor.ID)).To(Succeed())

			var grants, assignments, roles int64
			Expect(db.Model(&roleDatamodel.RolePermission{}).Count(&grants).Error).To(Succeed())
			Expect(db.Model(&roleDatamodel.UserRole{}).Count(&assignments).Error).To(Succeed())
			Expect(db.Model(&roleDatamodel.Role{}).Count(&roles).Error).To(Succeed())
			Expect([]int64{grants, assignments, roles}).To(Equal([]int64{0, 0, 0}))
			Expect(publisher.types()).To(ContainElement(events.EventTypeRoleDeleted))
		})

		It("does not delete a role of another organization", func() {
			editor, err := service.CreateRole(ctx, acmeAdmin, role.CreateRoleDTO{Name: "Editor"})
			Expect(err).NotTo(HaveOccurred())

			Expect(service.DeleteRole(ctx, globexAdmin, editor.ID)).To(MatchError(apperrors.ErrRoleNotFound))
			_, err = service.GetRole(ctx, acmeAdmin, editor.ID)
			Expect(err).NotTo(HaveOccurred())
		})
	})
})
