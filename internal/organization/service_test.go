package organization_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	apperrors "github.com/frahmantamala/docdraft/internal"
	"github.com/frahmantamala/docdraft/internal/access"
	"github.com/frahmantamala/docdraft/internal/core/scope"
	"github.com/frahmantamala/docdraft/internal/organization"
	organizationPostgres "github.com/frahmantamala/docdraft/internal/organization/postgres"
	"github.com/frahmantamala/docdraft/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Organization Service", func() {
	var (
		ctx     context.Context
		repo    organization.RepositoryAPI
		service *organization.Service
		acme    *organization.Organization
		globex  *organization.Organization

		superAdmin = scope.Actor{UserID: 1, OrgID: 1, IsSuperAdmin: true}
	)

	BeforeEach(func() {
		ctx = context.Background()
		repo = organizationPostgres.NewOrganizationRepository(openTestDB())
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = organization.NewService(repo, nil, slogger)

		var err error
		acme, err = service.CreateOrganization(ctx, superAdmin, organization.CreateOrganizationDTO{Name: "Acme"})
		Expect(err).NotTo(HaveOccurred())
		globex, err = service.CreateOrganization(ctx, superAdmin, organization.CreateOrganizationDTO{Name: "  Globex "})
		Expect(err).NotTo(HaveOccurred())
	})

	It("trims the name on create", func() {
		Expect(globex.Name).To(Equal("Globex"))
	})

	It("shows a member only their own organization", func() {
		orgs, err := service.ListOrganizations(ctx, scope.Actor{UserID: 5, OrgID: globex.ID})
		Expect(err).NotTo(HaveOccurred())
		Expect(orgs).To(HaveLen(1))
		Expect(orgs[0].ID).To(Equal(globex.ID))
	})

	It("shows a super-admin every organization", func() {
		orgs, err := service.ListOrganizations(ctx, superAdmin)
		Expect(err).NotTo(HaveOccurred())
		Expect(orgs).To(HaveLen(2))
	})

	It("forbids creation by anyone but a super-admin", func() {
		_, err := service.CreateOrganization(ctx, scope.Actor{UserID: 5, OrgID: acme.ID}, organization.CreateOrganizationDTO{Name: "Initech"})
		Expect(err).To(MatchError(apperrors.ErrAccessDenied))
	})

	It("rejects an empty name", func() {
		_, err := service.CreateOrganization(ctx, superAdmin, organization.CreateOrganizationDTO{Name: "   "})
		appErr, ok := apperrors.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Type).To(Equal(apperrors.ErrorTypeValidation))
	})

	Describe("Bootstrap", func() {
		It("returns the existing organization", func() {
			org, err := repo.Bootstrap(ctx, "Acme")
			Expect(err).NotTo(HaveOccurred())
			Expect(org.ID).To(Equal(acme.ID))
		})

		It("creates a missing organization once", func() {
			first, err := repo.Bootstrap(ctx, "Initech")
			Expect(err).NotTo(HaveOccurred())
			second, err := repo.Bootstrap(ctx, "Initech")
			Expect(err).NotTo(HaveOccurred())
			Expect(second.ID).To(Equal(first.ID))
		})
	})

	Describe("Handler", func() {
		serve := func(identity access.Identity, method, body string) *httptest.ResponseRecorder {
			slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
			handler := organization.NewHandler(&transport.BaseHandler{Logger: slogger}, service)

			router := chi.NewRouter()
			router.Use(func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					ctx := access.ContextWithAuthorization(r.Context(), access.Authorized{Identity: identity})
					next.ServeHTTP(w, r.WithContext(ctx))
				})
			})
			router.Get("/organizations", handler.ListOrganizations)
			router.Post("/organizations", handler.CreateOrganization)

			req := httptest.NewRequest(method, "/organizations", strings.NewReader(body))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			return w
		}

		It("lists organizations", func() {
			w := serve(access.Identity{UserID: 5, OrgID: acme.ID, Status: "active"}, http.MethodGet, "")
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(ContainSubstring(`"Acme"`))
			Expect(w.Body.String()).NotTo(ContainSubstring(`"Globex"`))
		})

		It("answers 403 to a regular member creating an organization", func() {
			w := serve(access.Identity{UserID: 5, OrgID: acme.ID, Status: "active"}, http.MethodPost, `{"name":"Initech"}`)
			Expect(w.Code).To(Equal(http.StatusForbidden))
		})

		It("creates an organization for a super-admin", func() {
			w := serve(access.Identity{UserID: 1, OrgID: acme.ID, Status: "active", IsSuperAdmin: true}, http.MethodPost, `{"name":"Initech"}`)
			Expect(w.Code).To(Equal(http.StatusCreated))
		})
	})
})
