// Package referral derives the two codes attached to every new registration:
// the registrant's own location code and the code of whoever referred them.
package referral

import (
	"realtyref/internal/catalog"
	dErrors "realtyref/pkg/domain-errors"
	strutil "realtyref/pkg/platform/strings"
)

// SeedCode is the root of the referral tree. Registrations with no other
// referrer hang off it.
const SeedCode = "WA00000000"

// Actor is the signed-in user registering someone else. The mobile fields
// mirror the names the backend stores them under.
type Actor struct {
	MyRefferalCode  string `json:"MyRefferalCode"`
	MobileNumber    string `json:"MobileNumber"`
	MobileIN        string `json:"MobileIN"`
	MobileCountryNo string `json:"MobileCountryNo"`
}

// Input is the state of a registration form at submit time.
type Input struct {
	Parliament   string
	Assembly     string
	Parliaments  []catalog.Parliament
	Actor        *Actor
	ReferralCode string
}

// Result carries the derived codes and the location names as they are sent
// to the backend.
type Result struct {
	District       string `json:"District"`
	Contituency    string `json:"Contituency"`
	MyRefferalCode string `json:"MyRefferalCode"`
	ReferredBy     string `json:"ReferredBy"`
}

// Resolve validates the location selection and derives both codes. It fails
// with invalid_selection when the parliament is unknown or the assembly does
// not belong to it.
func Resolve(in Input) (Result, error) {
	code, err := LocationCode(in.Parliaments, in.Parliament, in.Assembly)
	if err != nil {
		return Result{}, err
	}
	p, _ := catalog.FindParliament(in.Parliaments, in.Parliament)
	a, _ := p.Assembly(in.Assembly)
	return Result{
		District:       p.Name,
		Contituency:    a.Name,
		MyRefferalCode: code,
		ReferredBy:     ReferredBy(in.ReferralCode, in.Actor),
	}, nil
}

// LocationCode concatenates the parliament and assembly codes. Codes are
// strings, so leading zeros are kept.
func LocationCode(parliaments []catalog.Parliament, parliament, assembly string) (string, error) {
	p, ok := catalog.FindParliament(parliaments, parliament)
	if !ok {
		return "", dErrors.New(dErrors.CodeInvalidSelection, "Please select a valid parliament")
	}
	a, ok := p.Assembly(assembly)
	if !ok {
		return "", dErrors.New(dErrors.CodeInvalidSelection, "Please select an assembly of the chosen parliament")
	}
	return p.Code + a.Code, nil
}

// ReferredBy picks the first non-blank of: the code the operator typed, the
// actor's own referral code, the actor's mobile numbers, and the seed code.
func ReferredBy(entered string, actor *Actor) string {
	candidates := []string{entered}
	if actor != nil {
		candidates = append(candidates,
			actor.MyRefferalCode,
			actor.MobileNumber,
			actor.MobileIN,
			actor.MobileCountryNo,
		)
	}
	if v, ok := strutil.FirstNonEmpty(candidates...); ok {
		return v
	}
	return SeedCode
}
