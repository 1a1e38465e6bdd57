package registration

import "realtyref/internal/referral"

// Payloads use the backend's field names, spelling included.

type agentPayload struct {
	FullName     string `json:"FullName"`
	MobileNumber string `json:"MobileNumber"`
	Email        string `json:"Email,omitempty"`
	Password     string `json:"Password,omitempty"`
	Locations    string `json:"Locations,omitempty"`
	Expertise    string `json:"Expertise,omitempty"`
	Experience   string `json:"Experience,omitempty"`
	AgentType    string `json:"AgentType"`
	referral.Result
}

type customerPayload struct {
	FullName     string `json:"FullName"`
	MobileNumber string `json:"MobileNumber"`
	Occupation   string `json:"Occupation"`
	Password     string `json:"Password,omitempty"`
	Locations    string `json:"Locations,omitempty"`
	referral.Result
}

type investorPayload struct {
	FullName     string `json:"FullName"`
	MobileNumber string `json:"MobileNumber"`
	Locations    string `json:"Locations,omitempty"`
	referral.Result
}

type skilledPayload struct {
	FullName     string `json:"FullName"`
	MobileNumber string `json:"MobileNumber"`
	SelectSkill  string `json:"SelectSkill"`
	Locations    string `json:"Locations,omitempty"`
	referral.Result
}

type nriPayload struct {
	Name            string `json:"Name"`
	Country         string `json:"Country"`
	Locality        string `json:"Locality,omitempty"`
	IndianLocation  string `json:"IndianLocation,omitempty"`
	Occupation      string `json:"Occupation,omitempty"`
	MobileIN        string `json:"MobileIN"`
	MobileCountryNo string `json:"MobileCountryNo,omitempty"`
	ReferredBy      string `json:"ReferredBy"`
}
