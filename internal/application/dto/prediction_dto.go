package dto

// CustomerData is a single applicant record submitted for scoring. Feature1
// and Feature2 are optional numeric inputs; every other field is required.
type CustomerData struct {
	Feature1        *float64 `json:"Feature1,omitempty"`
	Feature2        *float64 `json:"Feature2,omitempty"`
	ChannelID       *int     `json:"ChannelId"`
	CurrencyCode    string   `json:"CurrencyCode"`
	CountryCode     string   `json:"CountryCode"`
	ProviderID      string   `json:"ProviderId"`
	ProductCategory string   `json:"ProductCategory"`
	PricingStrategy string   `json:"PricingStrategy"`
	SubscriptionID  string   `json:"SubscriptionId"`
}

// Features returns the record as model inputs keyed by column name. Absent
// optional numerics are omitted so the model imputes them.
func (c CustomerData) Features() map[string]any {
	f := map[string]any{
		"CurrencyCode":    c.CurrencyCode,
		"CountryCode":     c.CountryCode,
		"ProviderId":      c.ProviderID,
		"ProductCategory": c.ProductCategory,
		"PricingStrategy": c.PricingStrategy,
		"SubscriptionId":  c.SubscriptionID,
	}
	if c.ChannelID != nil {
		f["ChannelId"] = float64(*c.ChannelID)
	}
	if c.Feature1 != nil {
		f["Feature1"] = *c.Feature1
	}
	if c.Feature2 != nil {
		f["Feature2"] = *c.Feature2
	}
	return f
}

// MissingFields returns the JSON names of required fields left empty.
func (c CustomerData) MissingFields() []string {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"CurrencyCode", c.CurrencyCode},
		{"CountryCode", c.CountryCode},
		{"ProviderId", c.ProviderID},
		{"ProductCategory", c.ProductCategory},
		{"PricingStrategy", c.PricingStrategy},
		{"SubscriptionId", c.SubscriptionID},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if c.ChannelID == nil {
		missing = append(missing, "ChannelId")
	}
	return missing
}

// PredictionResponse is the output of a risk prediction.
type PredictionResponse struct {
	RiskProbability float64 `json:"risk_probability"`
}
