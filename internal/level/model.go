package level

import "github.com/shopspring/decimal"

// Tag names one rung of a referral ladder.
type Tag string

// The two independent ladders. Each gates its own daily income percentage.
var (
	CharacterOrder = []Tag{"A", "B", "C", "D", "E"}
	DigitOrder     = []Tag{"Lvl1", "Lvl2", "Lvl3", "Lvl4", "Lvl5"}
)

// Criteria is the threshold set for one tag. A tag is reached only when every
// threshold is met.
type Criteria struct {
	DirectMembers   int             `json:"direct_members"`
	MemberWalletMin decimal.Decimal `json:"member_wallet_min"`
	SelfWalletMin   decimal.Decimal `json:"self_wallet_min"`
}

// Stats is the user's current standing, as reported by the platform.
// MemberWalletBalance is the lowest wallet balance among direct members,
// since the member threshold applies to every one of them.
type Stats struct {
	DirectMembers       int             `json:"direct_members"`
	MemberWalletBalance decimal.Decimal `json:"member_wallet_balance"`
	SelfWalletBalance   decimal.Decimal `json:"self_wallet_balance"`
}

// Ladder bundles everything needed to evaluate one ladder.
type Ladder struct {
	Order    []Tag            `json:"order"`
	Criteria map[Tag]Criteria `json:"criteria"`
	Stats    Stats            `json:"stats"`
}
