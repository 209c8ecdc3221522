package services

import (
	"context"
	"fmt"

	"github.com/onana1992/corebank-backoffice/src/console"
	"github.com/onana1992/corebank-backoffice/src/models"
)

// consoleClient binds a console.Session to one product's configuration
// collections on the ProductService.
type consoleClient struct {
	products  *ProductService
	productID int64
}

// NewConsoleClient returns the console network boundary for one product.
func NewConsoleClient(products *ProductService, productID int64) console.Client {
	return &consoleClient{products: products, productID: productID}
}

func (c *consoleClient) List(ctx context.Context, kind console.Kind) ([]console.Row, error) {
	switch kind {
	case console.KindRates:
		rows, err := c.products.ListInterestRates(c.productID)
		return asRows(rows), err
	case console.KindFees:
		rows, err := c.products.ListFees(c.productID)
		return asRows(rows), err
	case console.KindLimits:
		rows, err := c.products.ListLimits(c.productID)
		return asRows(rows), err
	case console.KindPeriods:
		rows, err := c.products.ListPeriods(c.productID)
		return asRows(rows), err
	case console.KindPenalties:
		rows, err := c.products.ListPenalties(c.productID)
		return asRows(rows), err
	case console.KindEligibility:
		rows, err := c.products.ListEligibilityRules(c.productID)
		return asRows(rows), err
	case console.KindMappings:
		rows, err := c.products.ListGLMappings(c.productID)
		return asRows(rows), err
	}
	return nil, fmt.Errorf("unknown configuration kind %q", kind)
}

func (c *consoleClient) Create(ctx context.Context, kind console.Kind, payload any) error {
	var err error
	switch req := payload.(type) {
	case models.InterestRateRequest:
		_, err = c.products.CreateInterestRate(c.productID, req)
	case models.FeeRequest:
		_, err = c.products.CreateFee(c.productID, req)
	case models.LimitRequest:
		_, err = c.products.CreateLimit(c.productID, req)
	case models.PeriodRequest:
		_, err = c.products.CreatePeriod(c.productID, req)
	case models.PenaltyRequest:
		_, err = c.products.CreatePenalty(c.productID, req)
	case models.EligibilityRuleRequest:
		_, err = c.products.CreateEligibilityRule(c.productID, req)
	case models.GLMappingRequest:
		_, err = c.products.CreateGLMapping(c.productID, req)
	default:
		err = fmt.Errorf("unsupported payload %T for kind %q", payload, kind)
	}
	return err
}

func (c *consoleClient) Update(ctx context.Context, kind console.Kind, rowID string, payload any) error {
	var err error
	switch req := payload.(type) {
	case models.InterestRateRequest:
		_, err = c.products.UpdateInterestRate(c.productID, rowID, req)
	case models.FeeRequest:
		_, err = c.products.UpdateFee(c.productID, rowID, req)
	case models.LimitRequest:
		_, err = c.products.UpdateLimit(c.productID, rowID, req)
	case models.PeriodRequest:
		_, err = c.products.UpdatePeriod(c.productID, rowID, req)
	case models.PenaltyRequest:
		_, err = c.products.UpdatePenalty(c.productID, rowID, req)
	case models.EligibilityRuleRequest:
		_, err = c.products.UpdateEligibilityRule(c.productID, rowID, req)
	case models.GLMappingRequest:
		_, err = c.products.UpdateGLMapping(c.productID, rowID, req)
	default:
		err = fmt.Errorf("unsupported payload %T for kind %q", payload, kind)
	}
	return err
}

func (c *consoleClient) Delete(ctx context.Context, kind console.Kind, rowID string) error {
	switch kind {
	case console.KindRates:
		return c.products.DeleteInterestRate(c.productID, rowID)
	case console.KindFees:
		return c.products.DeleteFee(c.productID, rowID)
	case console.KindLimits:
		return c.products.DeleteLimit(c.productID, rowID)
	case console.KindPeriods:
		return c.products.DeletePeriod(c.productID, rowID)
	case console.KindPenalties:
		return c.products.DeletePenalty(c.productID, rowID)
	case console.KindEligibility:
		return c.products.DeleteEligibilityRule(c.productID, rowID)
	case console.KindMappings:
		return c.products.DeleteGLMapping(c.productID, rowID)
	}
	return fmt.Errorf("unknown configuration kind %q", kind)
}

func asRows[T console.Row](rows []T) []console.Row {
	out := make([]console.Row, len(rows))
	for i, r := range rows {
		out[i] = r
	}
	return out
}
