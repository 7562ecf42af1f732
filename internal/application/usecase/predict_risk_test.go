package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobdeve/credit-risk-model/internal/application/dto"
	"github.com/bobdeve/credit-risk-model/internal/application/usecase"
)

func validCustomer() dto.CustomerData {
	channel := 3
	return dto.CustomerData{
		CurrencyCode:    "UGX",
		CountryCode:     "256",
		ProviderID:      "ProviderId_6",
		ProductCategory: "airtime",
		ChannelID:       &channel,
		PricingStrategy: "2",
		SubscriptionID:  "SubscriptionId_4429",
	}
}

func TestPredictRisk_Execute(t *testing.T) {
	t.Run("returns model probability", func(t *testing.T) {
		m := &mockRiskModel{prob: 0.83}
		f1 := 1000.0

		req := validCustomer()
		req.Feature1 = &f1
		resp, err := usecase.NewPredictRisk(m).Execute(context.Background(), req)

		require.NoError(t, err)
		assert.InDelta(t, 0.83, resp.RiskProbability, 1e-12)
		assert.Equal(t, "airtime", m.features["ProductCategory"])
		assert.Equal(t, 3.0, m.features["ChannelId"])
		assert.Equal(t, 1000.0, m.features["Feature1"])
		assert.NotContains(t, m.features, "Feature2")
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		req := validCustomer()
		req.CountryCode = ""
		req.ChannelID = nil

		_, err := usecase.NewPredictRisk(&mockRiskModel{}).Execute(context.Background(), req)

		var invalid *usecase.ValidationError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, []string{"CountryCode", "ChannelId"}, invalid.Fields)
	})

	t.Run("no model loaded", func(t *testing.T) {
		uc := usecase.NewPredictRisk(nil)

		assert.False(t, uc.Ready())
		_, err := uc.Execute(context.Background(), validCustomer())
		assert.ErrorIs(t, err, usecase.ErrModelUnavailable)
	})

	t.Run("model failure is wrapped", func(t *testing.T) {
		_, err := usecase.NewPredictRisk(&mockRiskModel{err: errors.New("bad input")}).Execute(context.Background(), validCustomer())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to score record")
	})
}
