// Package ofx imports expenses from OFX/QFX bank and credit card statements.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/spendsnap/internal/model"
)

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// Parser implements OFX/QFX file parsing.
type Parser struct {
	loc *time.Location
}

// NewParser creates a parser that dates expenses in loc. A nil loc means
// time.Local.
func NewParser(loc *time.Location) *Parser {
	if loc == nil {
		loc = time.Local
	}
	return &Parser{loc: loc}
}

// Result is the outcome of parsing one statement file.
type Result struct {
	Transactions []model.Transaction
	Accounts     []string
	Skipped      int
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	// SEVERITY must be upper case
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// SGML files sometimes lose the closing bracket of a bare opening tag
	return tagFixRegex.ReplaceAllString(content, "$1>")
}

func (p *Parser) parse(reader io.Reader) (*ofxgo.Response, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}
	return resp, nil
}

// ParseFile parses an OFX/QFX file and returns its expenses. Only debits
// are expenses; credits (refunds, payments, interest) are counted as skipped.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, err := p.parse(reader)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		stmt, ok := msg.(*ofxgo.StatementResponse)
		if !ok {
			continue
		}
		bankStmts++
		result.Accounts = appendAccount(result.Accounts, string(stmt.BankAcctFrom.AcctID))
		if stmt.BankTranList != nil {
			p.collect(result, stmt.BankTranList.Transactions, model.MethodCash)
		}
	}

	for _, msg := range resp.CreditCard {
		stmt, ok := msg.(*ofxgo.CCStatementResponse)
		if !ok {
			continue
		}
		ccStmts++
		result.Accounts = appendAccount(result.Accounts, string(stmt.CCAcctFrom.AcctID))
		if stmt.BankTranList != nil {
			p.collect(result, stmt.BankTranList.Transactions, model.MethodCard)
		}
	}

	slog.Info("Parsed OFX file",
		"expenses", len(result.Transactions),
		"skipped", result.Skipped,
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return result, nil
}

func appendAccount(accounts []string, id string) []string {
	if id == "" {
		return accounts
	}
	for _, a := range accounts {
		if a == id {
			return accounts
		}
	}
	return append(accounts, id)
}

func (p *Parser) collect(result *Result, txns []ofxgo.Transaction, method model.PaymentMethod) {
	for _, ofxTx := range txns {
		txn, ok, err := p.convertTransaction(ofxTx, method)
		if err != nil {
			slog.Warn("Skipping OFX transaction", "fitid", string(ofxTx.FiTID), "error", err)
			result.Skipped++
			continue
		}
		if !ok {
			result.Skipped++
			continue
		}
		result.Transactions = append(result.Transactions, txn)
	}
}

// convertTransaction converts a debit into an expense. ok is false for
// credits and zero amounts.
func (p *Parser) convertTransaction(ofxTx ofxgo.Transaction, method model.PaymentMethod) (model.Transaction, bool, error) {
	amount, err := ratToDecimal(ofxTx)
	if err != nil {
		return model.Transaction{}, false, err
	}
	if !amount.IsNegative() {
		return model.Transaction{}, false, nil
	}

	txn, err := model.NewTransaction(amount.Neg(), ofxTx.DtPosted.In(p.loc), p.extractMerchantName(ofxTx), method)
	if err != nil {
		return model.Transaction{}, false, err
	}
	return txn, true, nil
}

// ratToDecimal converts the exact OFX amount. OFX uses negative amounts
// for debits.
func ratToDecimal(ofxTx ofxgo.Transaction) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(ofxTx.TrnAmt.FloatString(4))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount: %w", err)
	}
	return d, nil
}

// extractMerchantName tries to get a clean merchant name from OFX data.
func (p *Parser) extractMerchantName(tx ofxgo.Transaction) string {
	// Prefer PAYEE if available
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}

	name := string(tx.Name)
	if tx.Memo != "" && isGenericDescription(name) {
		name = string(tx.Memo)
	}
	name = strings.TrimSpace(name)

	prefixes := []string{
		"POS PURCHASE ",
		"PURCHASE AUTHORIZED ON ",
		"DEBIT CARD PURCHASE ",
		"ACH DEBIT ",
		"CHECK CARD ",
		"VISA PURCHASE ",
		"MC PURCHASE ",
		"DEBIT PURCHASE ",
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// Leading "MM/DD " dates
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	return name
}

// isGenericDescription checks if a transaction name is too generic.
func isGenericDescription(name string) bool {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBIT", "CREDIT", "PURCHASE", "PAYMENT", "POS TRANSACTION", "CARD PURCHASE":
		return true
	}
	return false
}
