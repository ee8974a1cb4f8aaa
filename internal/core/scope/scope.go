// Package scope restricts organization-owned rows to the organization of
// the acting user. Super-admins see every organization.
package scope

import "gorm.io/gorm"

// Actor is the authenticated caller a service operation runs on behalf of.
type Actor struct {
	UserID       int64
	OrgID        int64
	IsSuperAdmin bool
}

// Predicate is the row filter derived from an Actor. The zero value matches
// organization 0, which never exists.
type Predicate struct {
	Unrestricted bool
	OrgID        int64
}

// For is the single place the super-admin bypass is decided.
func For(actor Actor) Predicate {
	if actor.IsSuperAdmin {
		return Predicate{Unrestricted: true}
	}
	return Predicate{OrgID: actor.OrgID}
}

// Apply narrows db to rows of table whose org_id is visible. table must be a
// constant known at compile time; the org id is always a bound parameter.
func (p Predicate) Apply(db *gorm.DB, table string) *gorm.DB {
	if p.Unrestricted {
		return db
	}
	return db.Where(table+".org_id = ?", p.OrgID)
}

func (p Predicate) Allows(orgID int64) bool {
	return p.Unrestricted || p.OrgID == orgID
}

// ResolveTargetOrg returns the organization a new row belongs to. Only a
// super-admin may pick one; everybody else creates inside their own.
func (p Predicate) ResolveTargetOrg(actor Actor, target *int64) int64 {
	if p.Unrestricted && target != nil && *target > 0 {
		return *target
	}
	return actor.OrgID
}
