package account

import "time"

// Access is the level a membership grants inside an account.
type Access string

const (
	AccessOwner     Access = "OWNER"
	AccessAdmin     Access = "ADMIN"
	AccessReadWrite Access = "READ_WRITE"
	AccessReadOnly  Access = "READ_ONLY"
)

var accessRank = map[Access]int{
	AccessReadOnly:  1,
	AccessReadWrite: 2,
	AccessAdmin:     3,
	AccessOwner:     4,
}

// Valid reports whether a is one of the four known levels.
func (a Access) Valid() bool {
	_, ok := accessRank[a]
	return ok
}

// AtLeast reports whether a grants everything min grants.
func (a Access) AtLeast(min Access) bool {
	return accessRank[a] >= accessRank[min] && a.Valid()
}

func (a Access) String() string { return string(a) }

// Accesses lists the levels from highest to lowest.
func Accesses() []Access {
	return []Access{AccessOwner, AccessAdmin, AccessReadWrite, AccessReadOnly}
}

type User struct {
	ID          int64  `json:"id"`
	AuthSubject string `json:"auth_subject"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

type Plan struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	Features        []string `json:"features"`
	MaxNotes        int      `json:"max_notes"`
	StripeProductID string   `json:"stripe_product_id,omitempty"`
	MaxMembers      int      `json:"max_members"`
	AIGenMaxPM      int      `json:"ai_gen_max_pm"`
}

type Account struct {
	ID                   int64     `json:"id"`
	Name                 string    `json:"name"`
	CurrentPeriodEnds    time.Time `json:"current_period_ends"`
	Features             []string  `json:"features"`
	PlanID               int64     `json:"plan_id"`
	PlanName             string    `json:"plan_name"`
	MaxNotes             int       `json:"max_notes"`
	StripeSubscriptionID string    `json:"stripe_subscription_id,omitempty"`
	StripeCustomerID     string    `json:"stripe_customer_id,omitempty"`
	MaxMembers           int       `json:"max_members"`
	JoinPassword         string    `json:"join_password"`
	AIGenMaxPM           int       `json:"ai_gen_max_pm"`
	AIGenCount           int       `json:"ai_gen_count"`
}

// ApplyPlan copies the plan identity and its limits onto the account.
func (a *Account) ApplyPlan(p Plan) {
	a.PlanID = p.ID
	a.PlanName = p.Name
	a.Features = append([]string(nil), p.Features...)
	a.MaxNotes = p.MaxNotes
	a.MaxMembers = p.MaxMembers
	a.AIGenMaxPM = p.AIGenMaxPM
}

type Membership struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	AccountID int64  `json:"account_id"`
	Access    Access `json:"access"`
	Pending   bool   `json:"pending"`
}

type MembershipWithAccount struct {
	Membership
	Account Account `json:"account"`
}

type MembershipWithUser struct {
	Membership
	User User `json:"user"`
}

// FullUser is a user together with every membership they hold.
type FullUser struct {
	User
	Memberships []MembershipWithAccount `json:"memberships"`
}

// ActiveMemberships returns the non-pending memberships in their stored order.
func (u *FullUser) ActiveMemberships() []MembershipWithAccount {
	out := make([]MembershipWithAccount, 0, len(u.Memberships))
	for _, m := range u.Memberships {
		if !m.Pending {
			out = append(out, m)
		}
	}
	return out
}

// Membership finds the user's membership in accountID.
func (u *FullUser) Membership(accountID int64) (MembershipWithAccount, bool) {
	for _, m := range u.Memberships {
		if m.AccountID == accountID {
			return m, true
		}
	}
	return MembershipWithAccount{}, false
}

type AccountWithMembers struct {
	Account
	Members []MembershipWithUser `json:"members"`
}

// AccountUpdate lists the account columns to change. Nil fields are left as is.
type AccountUpdate struct {
	Name                 *string
	JoinPassword         *string
	StripeCustomerID     *string
	StripeSubscriptionID *string
	CurrentPeriodEnds    *time.Time
	AIGenCount           *int
	Plan                 *Plan
}

// Apply writes the set fields onto a.
func (u AccountUpdate) Apply(a *Account) {
	if u.Name != nil {
		a.Name = *u.Name
	}
	if u.JoinPassword != nil {
		a.JoinPassword = *u.JoinPassword
	}
	if u.StripeCustomerID != nil {
		a.StripeCustomerID = *u.StripeCustomerID
	}
	if u.StripeSubscriptionID != nil {
		a.StripeSubscriptionID = *u.StripeSubscriptionID
	}
	if u.CurrentPeriodEnds != nil {
		a.CurrentPeriodEnds = *u.CurrentPeriodEnds
	}
	if u.AIGenCount != nil {
		a.AIGenCount = *u.AIGenCount
	}
	if u.Plan != nil {
		a.ApplyPlan(*u.Plan)
	}
}
