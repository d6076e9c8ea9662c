package ofx

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/spendsnap/internal/model"
)

// Sample OFX data for testing.
const sampleBankOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>USD
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>1234567890
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-25.50
<FITID>2024011501
<NAME>STARBUCKS STORE #1234
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240120120000[0:GMT]
<TRNAMT>-125.00
<FITID>2024012001
<NAME>Whole Foods Market
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20240122120000[0:GMT]
<TRNAMT>1500.00
<FITID>2024012201
<NAME>PAYROLL
</STMTTRN>
<STMTTRN>
<TRNTYPE>CHECK
<DTPOSTED>20240125120000[0:GMT]
<TRNAMT>-500.00
<FITID>2024012501
<CHECKNUM>1234
<NAME>CHECK #1234
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1000.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

const sampleCreditCardOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<CREDITCARDMSGSRSV1>
<CCSTMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<CCSTMTRS>
<CURDEF>USD
<CCACCTFROM>
<ACCTID>4111111111111111
</CCACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240110120000[0:GMT]
<TRNAMT>-45.99
<FITID>CC2024011001
<NAME>AMAZON.COM*RT4Y7HG2
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-15.00
<FITID>CC2024011501
<NAME>NETFLIX.COM
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>-500.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</CCSTMTRS>
</CCSTMTTRNRS>
</CREDITCARDMSGSRSV1>
</OFX>`

func TestParseFile(t *testing.T) {
	tests := []struct {
		name          string
		ofxData       string
		expectedCount int
		expectedSkip  int
		expectedError bool
	}{
		{
			name:          "valid bank statement",
			ofxData:       sampleBankOFX,
			expectedCount: 3,
			expectedSkip:  1,
		},
		{
			name:          "valid credit card statement",
			ofxData:       sampleCreditCardOFX,
			expectedCount: 2,
		},
		{
			name:          "invalid OFX data",
			ofxData:       "not valid OFX",
			expectedError: true,
		},
		{
			name:          "empty OFX",
			ofxData:       "",
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := NewParser(time.UTC)
			result, err := parser.ParseFile(context.Background(), strings.NewReader(tt.ofxData))

			if tt.expectedError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, result.Transactions, tt.expectedCount)
			assert.Equal(t, tt.expectedSkip, result.Skipped)
		})
	}
}

func TestParseFile_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewParser(nil).ParseFile(ctx, strings.NewReader(sampleBankOFX))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseBankTransactions(t *testing.T) {
	parser := NewParser(time.UTC)

	result, err := parser.ParseFile(context.Background(), strings.NewReader(sampleBankOFX))
	require.NoError(t, err)
	require.Len(t, result.Transactions, 3)
	assert.Equal(t, []string{"1234567890"}, result.Accounts)

	tx1 := result.Transactions[0]
	assert.NotEmpty(t, tx1.ID)
	assert.Equal(t, "STARBUCKS STORE #1234", tx1.Merchant)
	assert.True(t, decimal.RequireFromString("25.50").Equal(tx1.Amount), tx1.Amount.String())
	assert.Equal(t, model.MethodCash, tx1.Method)
	assert.Equal(t, 2024, tx1.Date.Year())
	assert.Equal(t, time.January, tx1.Date.Month())
	assert.Equal(t, 15, tx1.Date.Day())
	assert.Equal(t, "2024-01", tx1.MonthKey)

	tx2 := result.Transactions[1]
	assert.Equal(t, "Whole Foods Market", tx2.Merchant)
	assert.True(t, decimal.NewFromInt(125).Equal(tx2.Amount))

	tx3 := result.Transactions[2]
	assert.Equal(t, "CHECK #1234", tx3.Merchant)
	assert.True(t, decimal.NewFromInt(500).Equal(tx3.Amount))
}

func TestParseCreditCardTransactions(t *testing.T) {
	parser := NewParser(time.UTC)

	result, err := parser.ParseFile(context.Background(), strings.NewReader(sampleCreditCardOFX))
	require.NoError(t, err)
	require.Len(t, result.Transactions, 2)
	assert.Equal(t, []string{"4111111111111111"}, result.Accounts)

	tx1 := result.Transactions[0]
	assert.Equal(t, "AMAZON.COM*RT4Y7HG2", tx1.Merchant)
	assert.True(t, decimal.RequireFromString("45.99").Equal(tx1.Amount))
	assert.Equal(t, model.MethodCard, tx1.Method)

	tx2 := result.Transactions[1]
	assert.Equal(t, "NETFLIX.COM", tx2.Merchant)
	assert.True(t, decimal.NewFromInt(15).Equal(tx2.Amount))
}

func TestParseFile_DatesInParserLocation(t *testing.T) {
	// 2024-01-31 22:00 UTC is already February in UTC+5.
	data := strings.Replace(sampleCreditCardOFX, "20240110120000[0:GMT]", "20240131220000[0:GMT]", 1)

	result, err := NewParser(time.FixedZone("PKT", 5*60*60)).ParseFile(context.Background(), strings.NewReader(data))
	require.NoError(t, err)
	require.NotEmpty(t, result.Transactions)
	assert.Equal(t, "2024-02", result.Transactions[0].MonthKey)
	assert.Equal(t, 1, result.Transactions[0].Date.Day())
}

func TestExtractMerchantName(t *testing.T) {
	parser := NewParser(time.UTC)

	tests := []struct {
		name     string
		tx       ofxgo.Transaction
		expected string
	}{
		{
			name:     "remove POS prefix",
			tx:       ofxgo.Transaction{Name: "POS PURCHASE STARBUCKS"},
			expected: "STARBUCKS",
		},
		{
			name:     "remove DEBIT CARD prefix",
			tx:       ofxgo.Transaction{Name: "DEBIT CARD PURCHASE WHOLE FOODS"},
			expected: "WHOLE FOODS",
		},
		{
			name:     "keep clean name",
			tx:       ofxgo.Transaction{Name: "NETFLIX.COM"},
			expected: "NETFLIX.COM",
		},
		{
			name:     "trim whitespace",
			tx:       ofxgo.Transaction{Name: "  AMAZON.COM  "},
			expected: "AMAZON.COM",
		},
		{
			name:     "strip leading date",
			tx:       ofxgo.Transaction{Name: "01/15 CORNER SHOP"},
			expected: "CORNER SHOP",
		},
		{
			name:     "generic name uses memo",
			tx:       ofxgo.Transaction{Name: "PURCHASE", Memo: "Bookstore"},
			expected: "Bookstore",
		},
		{
			name:     "payee wins",
			tx:       ofxgo.Transaction{Name: "POS 123", Payee: &ofxgo.Payee{Name: "Cafe Aroma"}},
			expected: "Cafe Aroma",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parser.extractMerchantName(tt.tx))
		})
	}
}

func TestReimportProducesSameHashes(t *testing.T) {
	// Re-importing the same statement must produce the same hashes.
	first, err := NewParser(time.UTC).ParseFile(context.Background(), strings.NewReader(sampleBankOFX))
	require.NoError(t, err)
	second, err := NewParser(time.UTC).ParseFile(context.Background(), strings.NewReader(sampleBankOFX))
	require.NoError(t, err)

	require.Equal(t, len(first.Transactions), len(second.Transactions))
	for i := range first.Transactions {
		assert.NotEqual(t, first.Transactions[i].ID, second.Transactions[i].ID)
		assert.Equal(t, first.Transactions[i].Hash(), second.Transactions[i].Hash())
	}
}

func TestPreprocessOFX(t *testing.T) {
	p := NewParser(time.UTC)
	in := "\n\n  <SEVERITY>Info</SEVERITY>\n<CODE\n"
	out := p.preprocessOFX(in)
	assert.Equal(t, "<SEVERITY>INFO</SEVERITY>\n<CODE>\n", out)
}
