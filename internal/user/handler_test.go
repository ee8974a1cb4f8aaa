package user_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/frahmantamala/docdraft/internal/access"
	"github.com/frahmantamala/docdraft/internal/transport"
	"github.com/frahmantamala/docdraft/internal/user"
	userPostgres "github.com/frahmantamala/docdraft/internal/user/postgres"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("User Handler", func() {
	var (
		router   *chi.Mux
		ana      *user.User
		editorID int64
	)

	identity := access.Identity{UserID: 10, OrgID: 1, Name: "Admin", Email: "admin@acme.test", Status: "active"}

	asActor := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := access.ContextWithAuthorization(r.Context(), access.Authorized{
				Identity:    identity,
				Roles:       []access.RoleRef{{ID: 1, Name: "Administrator"}},
				Permissions: []string{"users:read"},
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}

	BeforeEach(func() {
		db := openTestDB()
		editorID = createRole(db, 1, "Editor")

		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service := user.NewService(userPostgres.NewUserRepository(db), prefixHasher{}, nil, slogger)
		handler := user.NewHandler(&transport.BaseHandler{Logger: slogger}, service)

		var err error
		ana, err = service.CreateUser(context.Background(), identity.Actor(), user.CreateUserDTO{
			Name: "Ana", Email: "ana@acme.test", Password: "s3cret-pass",
		})
		Expect(err).NotTo(HaveOccurred())

		router = chi.NewRouter()
		router.Use(asActor)
		router.Get("/me", handler.GetCurrentUser)
		router.Get("/users", handler.ListUsers)
		router.Post("/users", handler.CreateUser)
		router.Get("/users/{id}", handler.GetUser)
		router.Put("/users/{id}/roles", handler.AssignRoles)
		router.Patch("/users/{id}/status", handler.SetUserStatus)
	})

	serve := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	errorType := func(w *httptest.ResponseRecorder) string {
		var body struct {
			Error struct {
				Type string `json:"type"`
			} `json:"error"`
		}
		Expect(json.NewDecoder(w.Body).Decode(&body)).To(Succeed())
		return body.Error.Type
	}

	It("describes the session user", func() {
		w := serve(http.MethodGet, "/me", "")
		Expect(w.Code).To(Equal(http.StatusOK))

		var me user.MeResponse
		Expect(json.NewDecoder(w.Body).Decode(&me)).To(Succeed())
		Expect(me.User.Email).To(Equal("admin@acme.test"))
		Expect(me.Permissions).To(ConsistOf("users:read"))
		Expect(me.Roles).To(HaveLen(1))
	})

	It("lists users without exposing password hashes", func() {
		w := serve(http.MethodGet, "/users", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).NotTo(ContainSubstring("hashed:"))

		var response user.UsersResponse
		Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
		Expect(response.Users).To(HaveLen(1))
	})

	It("creates a user", func() {
		w := serve(http.MethodPost, "/users", `{"name":"Bo","email":"bo@acme.test","password":"s3cret-pass","role_ids":[`+itoa(editorID)+`]}`)
		Expect(w.Code).To(Equal(http.StatusCreated))

		var created user.User
		Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())
		Expect(created.Status).To(Equal("active"))
		Expect(created.Roles).To(HaveLen(1))
	})

	It("ignores a super-admin flag in the request body", func() {
		w := serve(http.MethodPost, "/users", `{"name":"Bo","email":"bo@acme.test","password":"s3cret-pass","is_super_admin":true}`)
		Expect(w.Code).To(Equal(http.StatusCreated))

		var created user.User
		Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())
		Expect(created.IsSuperAdmin).To(BeFalse())
	})

	It("rejects a malformed body", func() {
		w := serve(http.MethodPost, "/users", `{"name":`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(errorType(w)).To(Equal("VALIDATION_ERROR"))
	})

	It("assigns roles", func() {
		w := serve(http.MethodPut, "/users/"+itoa(ana.ID)+"/roles", `{"role_ids":[`+itoa(editorID)+`]}`)
		Expect(w.Code).To(Equal(http.StatusOK))

		var updated user.User
		Expect(json.NewDecoder(w.Body).Decode(&updated)).To(Succeed())
		Expect(updated.Roles).To(ConsistOf(access.RoleRef{ID: editorID, Name: "Editor"}))
	})

	It("requires the role_ids array", func() {
		w := serve(http.MethodPut, "/users/"+itoa(ana.ID)+"/roles", `{}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("rejects an unknown status", func() {
		w := serve(http.MethodPatch, "/users/"+itoa(ana.ID)+"/status", `{"status":"archived"}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(errorType(w)).To(Equal("VALIDATION_ERROR"))
	})

	It("disables a user", func() {
		w := serve(http.MethodPatch, "/users/"+itoa(ana.ID)+"/status", `{"status":"disabled"}`)
		Expect(w.Code).To(Equal(http.StatusOK))
	})

	It("answers not found for a malformed or unknown id", func() {
		Expect(serve(http.MethodGet, "/users/abc", "").Code).To(Equal(http.StatusNotFound))
		Expect(serve(http.MethodGet, "/users/9999", "").Code).To(Equal(http.StatusNotFound))
	})
})
