package domain

import (
	"fmt"
	"sort"
)

type ServerStatus string

const (
	ServerPending   ServerStatus = "pending"
	ServerApproved  ServerStatus = "approved"
	ServerRejected  ServerStatus = "rejected"
	ServerSuspended ServerStatus = "suspended"
)

// allowed admin transitions between listing states
var serverTransitions = map[ServerStatus][]ServerStatus{
	ServerPending:   {ServerApproved, ServerRejected},
	ServerApproved:  {ServerSuspended},
	ServerSuspended: {ServerApproved},
}

func (s ServerStatus) CanTransitionTo(next ServerStatus) bool {
	for _, allowed := range serverTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func ParseServerStatus(v string) (ServerStatus, error) {
	switch s := ServerStatus(v); s {
	case ServerPending, ServerApproved, ServerRejected, ServerSuspended:
		return s, nil
	}
	return "", NewValidationError(fmt.Sprintf("unknown server status %q", v))
}

type Category string

const (
	CategorySurvival  Category = "survival"
	CategoryPvP       Category = "pvp"
	CategoryRoleplay  Category = "roleplay"
	CategoryCreative  Category = "creative"
	CategoryAdventure Category = "adventure"
	CategorySkyblock  Category = "skyblock"
	CategoryMinigames Category = "minigames"
)

type categoryInfo struct {
	Label string
	Icon  string
}

var categories = map[Category]categoryInfo{
	CategorySurvival:  {"Survival", "trees"},
	CategoryPvP:       {"PvP", "swords"},
	CategoryRoleplay:  {"Roleplay", "drama"},
	CategoryCreative:  {"Creative", "palette"},
	CategoryAdventure: {"Adventure", "compass"},
	CategorySkyblock:  {"Skyblock", "cloud"},
	CategoryMinigames: {"Minigames", "gamepad-2"},
}

func ParseCategory(v string) (Category, error) {
	c := Category(v)
	if _, ok := categories[c]; !ok {
		return "", NewValidationError(fmt.Sprintf("unknown category %q", v))
	}
	return c, nil
}

func (c Category) Label() string { return categories[c].Label }

func (c Category) Icon() string { return categories[c].Icon }

func Categories() []Category {
	out := make([]Category, 0, len(categories))
	for c := range categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

type SponsorshipType string

const (
	SponsorshipFeatured SponsorshipType = "featured"
	SponsorshipPremium  SponsorshipType = "premium"
	SponsorshipBump     SponsorshipType = "bump"
)

func ParseSponsorshipType(v string) (SponsorshipType, error) {
	switch t := SponsorshipType(v); t {
	case SponsorshipFeatured, SponsorshipPremium, SponsorshipBump:
		return t, nil
	}
	return "", NewValidationError(fmt.Sprintf("unknown sponsorship type %q", v))
}

type Duration string

const (
	DurationDaily   Duration = "daily"
	DurationWeekly  Duration = "weekly"
	DurationMonthly Duration = "monthly"
	DurationOneHour Duration = "1h"
	DurationThreeHr Duration = "3h"
)

func ParseDuration(v string) (Duration, error) {
	switch d := Duration(v); d {
	case DurationDaily, DurationWeekly, DurationMonthly, DurationOneHour, DurationThreeHr:
		return d, nil
	}
	return "", NewValidationError(fmt.Sprintf("unknown duration %q", v))
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentSucceeded PaymentStatus = "succeeded"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending:   {PaymentSucceeded, PaymentFailed},
	PaymentFailed:    {PaymentSucceeded},
	PaymentSucceeded: {PaymentRefunded},
}

// CanTransitionTo reports whether a payment state change is legal. A late
// success after a failure is accepted because money has moved; succeeded and
// refunded never go back.
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// PaymentSources lists the states a payment may move to next from, in a
// stable order.
func PaymentSources(next PaymentStatus) []PaymentStatus {
	var from []PaymentStatus
	for s := range paymentTransitions {
		if s.CanTransitionTo(next) {
			from = append(from, s)
		}
	}
	sort.Slice(from, func(i, j int) bool { return from[i] < from[j] })
	return from
}

func ParsePaymentStatus(v string) (PaymentStatus, error) {
	switch s := PaymentStatus(v); s {
	case PaymentPending, PaymentSucceeded, PaymentFailed, PaymentRefunded:
		return s, nil
	}
	return "", NewValidationError(fmt.Sprintf("unknown payment status %q", v))
}

type Role string

const (
	RolePlayer      Role = "player"
	RoleServerOwner Role = "server_owner"
	RoleAdmin       Role = "admin"
)

type ServerSort string

const (
	SortVotes  ServerSort = "votes"
	SortRating ServerSort = "rating"
	SortNew    ServerSort = "new"
)

// ParseServerSort defaults an empty value to SortVotes.
func ParseServerSort(v string) (ServerSort, error) {
	switch s := ServerSort(v); s {
	case "":
		return SortVotes, nil
	case SortVotes, SortRating, SortNew:
		return s, nil
	}
	return "", NewValidationError(fmt.Sprintf("unknown sort %q", v))
}
