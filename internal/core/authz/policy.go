// Package authz maps (role, type) pairs to capability sets. Handlers check a
// single named capability instead of comparing role strings at each call site.
package authz

import "payulot/internal/core/domain"

// Capability names a privileged operation class.
type Capability string

const (
	CapFundWallets         Capability = "fund-wallets"
	CapAdjustTreasury      Capability = "adjust-treasury"
	CapChargePassport      Capability = "charge-passport"
	CapProcessPayouts      Capability = "process-payouts"
	CapRequestPayout       Capability = "request-payout"
	CapIssuePassports      Capability = "issue-passports"
	CapViewAllTransactions Capability = "view-all-transactions"
	CapViewReports         Capability = "view-reports"
	CapViewOwnTransactions Capability = "view-own-transactions"
	CapManageBankAccounts  Capability = "manage-bank-accounts"
)

// Set is a capability set.
type Set map[Capability]struct{}

// Has reports whether the set contains the capability.
func (s Set) Has(c Capability) bool {
	_, ok := s[c]
	return ok
}

func newSet(caps ...Capability) Set {
	s := make(Set, len(caps))
	for _, c := range caps {
		s[c] = struct{}{}
	}
	return s
}

var cardholderCaps = newSet(
	CapRequestPayout,
	CapManageBankAccounts,
	CapViewOwnTransactions,
)

// CapabilitiesFor returns the capability set granted to a (role, type) pair.
// Unknown combinations get an empty set.
func CapabilitiesFor(role domain.Role, userType domain.UserType) Set {
	switch role {
	case domain.RoleAdmin:
		switch userType {
		case domain.TypeAccountant:
			return newSet(
				CapFundWallets,
				CapProcessPayouts,
				CapViewAllTransactions,
				CapViewReports,
				CapViewOwnTransactions,
			)
		case domain.TypeTreasury:
			return newSet(
				CapFundWallets,
				CapAdjustTreasury,
				CapIssuePassports,
				CapViewAllTransactions,
				CapViewReports,
				CapViewOwnTransactions,
			)
		default:
			return newSet(
				CapIssuePassports,
				CapViewAllTransactions,
				CapViewOwnTransactions,
			)
		}
	case domain.RoleVendor:
		return newSet(CapChargePassport, CapViewOwnTransactions)
	case domain.RoleCitizen, domain.RoleStudent, domain.RoleSenior, domain.RoleParent:
		return cardholderCaps
	}
	return newSet()
}

// Allowed reports whether the actor holds the capability.
func Allowed(actor domain.Actor, c Capability) bool {
	return CapabilitiesFor(actor.Role, actor.Type).Has(c)
}
