package e2e

import (
	"github.com/cucumber/godog"

	"realtyref/e2e/steps/common"
	"realtyref/e2e/steps/referral"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Generic requests and assertions
	common.RegisterSteps(ctx, tc)

	// Registration, login and roster steps
	referral.RegisterSteps(ctx, tc)
}
