package core

// Delta maps a (card kind, transaction kind) pair onto the signed balance
// mutation for amount. This is the single place the debit/credit semantic
// difference is encoded: a debit card's balance is money available, reduced
// by spending and increased by deposits; a credit card's balance is money
// owed, increased by spending and reduced by payments.
//
//	debit  / expense -> -amount
//	debit  / income  -> +amount
//	credit / expense -> +amount
//	credit / income  -> -amount
func Delta(card CardKind, kind TransactionKind, amount Money) (Money, error) {
	if !card.Valid() {
		return Money{}, ErrInvalidCardKind
	}
	if !kind.Valid() {
		return Money{}, ErrInvalidTransactionKind
	}
	switch {
	case card == Debit && kind == Expense:
		return amount.Neg(), nil
	case card == Credit && kind == Income:
		return amount.Neg(), nil
	default: // debit/income, credit/expense
		return amount, nil
	}
}

// Fold replays a transaction history in order and returns the balance a card
// of the given kind ends with, starting from initial. A card's stored balance
// must always equal the fold of its history; the audit worker uses this to
// detect drift.
func Fold(initial Money, card CardKind, history []Transaction) (Money, error) {
	balance := initial
	for _, t := range history {
		delta, err := Delta(card, t.Kind, t.Amount)
		if err != nil {
			return Money{}, err
		}
		balance = balance.Add(delta)
	}
	return balance, nil
}
