package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// TransactionsCSV is a small transaction export with three customers. At the
// default snapshot, one day after the latest transaction (2018-12-01T23:00Z),
// their RFM profiles are C1 (1, 3, 60), C2 (29, 1, 10) and C3 (15, 2, 300),
// so C2 forms the high risk cluster at k=3.
const TransactionsCSV = `TransactionId,BatchId,AccountId,SubscriptionId,CustomerId,CurrencyCode,CountryCode,ProviderId,ProductId,ProductCategory,ChannelId,Amount,Value,TransactionStartTime,PricingStrategy,FraudResult
TransactionId_1,BatchId_1,AccountId_1,SubscriptionId_1,C1,UGX,256,ProviderId_6,ProductId_10,airtime,ChannelId_3,20,20,2018-11-30T08:00:00Z,2,0
TransactionId_2,BatchId_2,AccountId_2,SubscriptionId_2,C2,UGX,256,ProviderId_4,ProductId_6,financial_services,ChannelId_2,-10,10,2018-11-02T09:30:00Z,2,0
TransactionId_3,BatchId_3,AccountId_1,SubscriptionId_1,C1,UGX,256,ProviderId_6,ProductId_10,airtime,ChannelId_3,20,20,2018-11-30T10:00:00Z,2,0
TransactionId_4,BatchId_4,AccountId_3,SubscriptionId_3,C3,UGX,256,ProviderId_1,ProductId_1,utility_bill,ChannelId_3,100,100,2018-11-16T12:00:00Z,4,0
TransactionId_5,BatchId_5,AccountId_1,SubscriptionId_1,C1,UGX,256,ProviderId_6,ProductId_10,airtime,ChannelId_3,20,20,2018-11-30T23:00:00Z,2,0
TransactionId_6,BatchId_6,AccountId_3,SubscriptionId_3,C3,UGX,256,ProviderId_1,ProductId_1,utility_bill,ChannelId_3,200,200,2018-11-16T13:00:00Z,4,0
`

// WriteFile writes content to name inside a fresh temporary directory and
// returns the full path.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write fixture %s: %v", path, err)
	}
	return path
}
