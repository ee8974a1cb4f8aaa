package access_test

import (
	"context"
	"errors"

	"github.com/frahmantamala/docdraft/internal/access"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type fakeStore struct {
	catalog   []string
	userPerms map[int64][]string
	userRoles map[int64][]access.RoleRef
	err       error

	catalogCalls int
}

func (f *fakeStore) AllPermissionKeys(ctx context.Context) ([]string, error) {
	f.catalogCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.catalog, nil
}

func (f *fakeStore) PermissionKeysForUser(ctx context.Context, userID int64) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.userPerms[userID], nil
}

func (f *fakeStore) RolesForUser(ctx context.Context, userID int64) ([]access.RoleRef, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.userRoles[userID], nil
}

var _ = Describe("Resolver", func() {
	var (
		store    *fakeStore
		resolver *access.Resolver
		ctx      context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		store = &fakeStore{
			catalog: []string{"docs:read", "roles:manage", "users:read"},
			userPerms: map[int64][]string{
				7: {"users:read", "docs:read", "users:read"},
			},
			userRoles: map[int64][]access.RoleRef{
				7: {{ID: 2, Name: "Editor"}},
			},
		}
		resolver = access.NewResolver(store)
	})

	It("returns the sorted union without duplicates", func() {
		perms, err := resolver.ResolvePermissions(ctx, 7, false)
		Expect(err).NotTo(HaveOccurred())
		Expect(perms).To(Equal([]string{"docs:read", "users:read"}))
	})

	It("returns an empty set for an unassigned user", func() {
		perms, err := resolver.ResolvePermissions(ctx, 99, false)
		Expect(err).NotTo(HaveOccurred())
		Expect(perms).To(BeEmpty())
		Expect(perms).NotTo(BeNil())
	})

	It("grants a super-admin the whole catalog", func() {
		perms, err := resolver.ResolvePermissions(ctx, 99, true)
		Expect(err).NotTo(HaveOccurred())
		Expect(perms).To(Equal(store.catalog))
	})

	It("reads the catalog on every call", func() {
		_, err := resolver.ResolvePermissions(ctx, 1, true)
		Expect(err).NotTo(HaveOccurred())

		store.catalog = append(store.catalog, "users:manage")
		perms, err := resolver.ResolvePermissions(ctx, 1, true)
		Expect(err).NotTo(HaveOccurred())
		Expect(perms).To(ContainElement("users:manage"))
		Expect(store.catalogCalls).To(Equal(2))
	})

	It("surfaces store failures", func() {
		store.err = errors.New("connection refused")
		_, err := resolver.ResolvePermissions(ctx, 7, false)
		Expect(err).To(MatchError(ContainSubstring("connection refused")))
	})

	It("lists assigned roles", func() {
		roles, err := resolver.ResolveRoles(ctx, 7)
		Expect(err).NotTo(HaveOccurred())
		Expect(roles).To(ConsistOf(access.RoleRef{ID: 2, Name: "Editor"}))

		roles, err = resolver.ResolveRoles(ctx, 99)
		Expect(err).NotTo(HaveOccurred())
		Expect(roles).To(BeEmpty())
	})
})
