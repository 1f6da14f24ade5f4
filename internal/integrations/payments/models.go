package payments

// IntentStatusSucceeded статус платежа после успешного списания
// Только такой intent считается оплаченным депозитом
const IntentStatusSucceeded = "succeeded"

// Intent результат создания платежа на стороне провайдера
type Intent struct {
	ID           string
	ClientSecret string
	AmountMinor  int64
	Currency     string
	Status       string
}

// RefundResult результат возврата депозита
type RefundResult struct {
	ID          string
	AmountMinor int64
	Status      string
}
