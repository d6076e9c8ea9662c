package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/spendsnap/internal/common"
	"github.com/Veraticus/spendsnap/internal/model"
	"github.com/Veraticus/spendsnap/internal/testutil"
)

const statementOFX = `OFXHEADER:100
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
<DTSERVER>20250315120000[0:GMT]
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
<DTSTART>20250301120000[0:GMT]
<DTEND>20250314120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20250303120000[0:GMT]
<TRNAMT>-25.50
<FITID>2025030301
<NAME>STARBUCKS STORE #1234
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20250310120000[0:GMT]
<TRNAMT>-125.00
<FITID>2025031001
<NAME>Whole Foods Market
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20250312120000[0:GMT]
<TRNAMT>1500.00
<FITID>2025031201
<NAME>PAYROLL
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1349.50
<DTASOF>20250314120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

// harness runs the root command against an isolated database with a fixed
// clock of 2025-03-15 12:00 UTC.
type harness struct {
	t       *testing.T
	now     time.Time
	dir     string
	cfgPath string
	dbPath  string
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	dir := t.TempDir()
	h := &harness{
		t:       t,
		now:     time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC),
		dir:     dir,
		cfgPath: filepath.Join(dir, "config.yaml"),
		dbPath:  filepath.Join(dir, "spendsnap.db"),
	}

	cfg := fmt.Sprintf(`database:
  path: %s
logging:
  level: error
locale:
  timezone: UTC
  language: en-US
  currency: USD
  week_start: monday
`, h.dbPath)
	require.NoError(t, os.WriteFile(h.cfgPath, []byte(cfg), 0600))
	return h
}

func (h *harness) runWithInput(stdin string, args ...string) (string, error) {
	h.t.Helper()

	a := newApp()
	a.now = func() time.Time { return h.now }

	var out bytes.Buffer
	cmd := newRootCmd(a)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", h.cfgPath}, args...))

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// seed writes fixtures straight into the harness database and closes it
// before any command opens the file.
func (h *harness) seed(fn func(db *testutil.TestDB)) {
	h.t.Helper()
	db := testutil.SetupTestDBWithOptions(h.t, testutil.TestDBOptions{Path: h.dbPath, SeedCategories: true})
	fn(db)
	db.Close()
}

func (h *harness) run(args ...string) string {
	h.t.Helper()
	out, err := h.runWithInput("", args...)
	require.NoError(h.t, err, out)
	return out
}

func TestVersionCommand(t *testing.T) {
	h := newHarness(t)
	assert.Contains(t, h.run("version"), "spendsnap dev")
}

func TestExpenseAddListDelete(t *testing.T) {
	h := newHarness(t)

	out := h.run("expense", "add", "450", "-m", "Cafe Aroma", "--category", "Dine out")
	assert.Contains(t, out, "Logged $450.00 on Sat Mar 15")

	h.run("expense", "add", "1,200", "-m", "Pharmacy", "--date", "2025-03-02")

	out = h.run("expense", "list")
	assert.Contains(t, out, "Expenses for March 2025")
	assert.Contains(t, out, "Cafe Aroma")
	assert.Contains(t, out, "Dine out")
	assert.Contains(t, out, "Uncategorized")
	assert.Contains(t, out, "$1,200.00")
	assert.Contains(t, out, "$1,650.00")

	out = h.run("expense", "list", "--month", "2025-02")
	assert.Contains(t, out, "No expenses in February 2025")

	// Delete needs confirmation; anything but yes keeps the expense.
	store, err := newAppFor(h).openStorage(context.Background())
	require.NoError(t, err)
	txns, err := store.GetTransactionsByMonth(context.Background(), model.NewMonth(2025, time.March, time.UTC))
	require.NoError(t, err)
	require.NoError(t, store.Close())
	require.Len(t, txns, 2)
	id := txns[0].ID

	out, err = h.runWithInput("n\n", "expense", "delete", id[:minIDPrefix])
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing deleted")

	out, err = h.runWithInput("y\n", "expense", "delete", id[:minIDPrefix])
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted expense "+id)

	_, err = h.runWithInput("", "expense", "delete", "-y", id)
	assert.True(t, common.IsUserError(err), "deleting twice reports a user error: %v", err)
}

func TestExpenseAdd_Rejections(t *testing.T) {
	h := newHarness(t)

	tests := []struct {
		name string
		args []string
	}{
		{name: "not a number", args: []string{"expense", "add", "lots"}},
		{name: "negative", args: []string{"expense", "add", "--", "-5"}},
		{name: "bad date", args: []string{"expense", "add", "5", "--date", "15/03/2025"}},
		{name: "bad method", args: []string{"expense", "add", "5", "--method", "cheque"}},
		{name: "unknown category", args: []string{"expense", "add", "5", "--category", "Yachts"}},
		{name: "unknown card", args: []string{"expense", "add", "5", "--card", "Nope"}},
		{name: "bad month", args: []string{"expense", "list", "--month", "March"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.runWithInput("", tt.args...)
			require.Error(t, err)
			assert.True(t, common.IsUserError(err), "want a user error, got %v", err)
		})
	}
}

func TestBudgetPaceAndOverview(t *testing.T) {
	h := newHarness(t)

	out := h.run("budget", "set", "3100")
	assert.Contains(t, out, "Budget for March 2025 set to $3,100.00 ($100.00 per day)")

	h.run("expense", "add", "450", "-m", "Cafe Aroma")
	h.run("expense", "add", "50", "-m", "Bakery", "--date", "2025-03-14")

	out = h.run("budget", "show")
	assert.Contains(t, out, "Spent:     $500.00")
	assert.Contains(t, out, "Remaining: $2,600.00")

	out = h.run("pace")
	assert.Contains(t, out, "On pace")
	assert.Contains(t, out, "Under the plan by $1,000.00")
	assert.Contains(t, out, "Daily average $33.33, planned $100.00")
	assert.Contains(t, out, "days 1-15")

	out = h.run("overview")
	assert.Contains(t, out, "$500.00")
	assert.Contains(t, out, "Today      $450.00")
	assert.Contains(t, out, "This week  $500.00")
	assert.Contains(t, out, "Days left  17")

	out = h.run("insights")
	assert.Contains(t, out, "Top merchant: Cafe Aroma")
	assert.Contains(t, out, "Days 22-31")
	assert.Contains(t, out, "Cash $500.00 (100%)")
}

func TestPace_NoBudgetIsOverPace(t *testing.T) {
	h := newHarness(t)
	h.run("expense", "add", "10")

	out := h.run("pace")
	assert.Contains(t, out, "No budget set for March 2025")
	assert.Contains(t, out, "Ahead of pace")

	out = h.run("budget", "show")
	assert.Contains(t, out, "No budget set for March 2025")
}

func TestCardCycleStatus(t *testing.T) {
	h := newHarness(t)

	out := h.run("card", "add", "Alfalah", "--limit", "1000", "--statement-day", "20", "--due-day", "5")
	assert.Contains(t, out, "Added Alfalah")
	assert.Contains(t, out, "due Sat Apr 5")

	_, err := h.runWithInput("", "card", "add", "Alfalah", "--statement-day", "3", "--due-day", "9")
	assert.True(t, common.IsUserError(err), "duplicate card: %v", err)
	_, err = h.runWithInput("", "card", "add", "Broken", "--statement-day", "32")
	assert.True(t, common.IsUserError(err), "day out of range: %v", err)

	h.run("expense", "add", "250", "--card", "Alfalah", "--date", "2025-03-10")
	// Before the cycle start, so not counted.
	h.run("expense", "add", "99", "--card", "Alfalah", "--date", "2025-02-19")

	out = h.run("card", "status")
	assert.Contains(t, out, "Spent $250.00 of $1,000.00 in 1 expense")
	assert.Contains(t, out, "Available $750.00")
	assert.Contains(t, out, "Due Sat Apr 5 (in 21 days)")

	out = h.run("card", "list")
	assert.Contains(t, out, "Alfalah")
	assert.Contains(t, out, "$1,000.00")

	out = h.run("card", "delete", "Alfalah", "-y")
	assert.Contains(t, out, "Deleted card Alfalah")

	out = h.run("expense", "list")
	assert.Contains(t, out, "$250.00", "expenses survive card deletion")
}

func TestReportsOverSeededMonth(t *testing.T) {
	h := newHarness(t)
	march := model.NewMonth(2025, time.March, time.UTC)

	h.seed(func(db *testutil.TestDB) {
		db.MustSetBudget(march, "3100")
		visa := db.MustCreateCard("Visa", 1000, 20, 5)
		dineOut := db.MustCategoryID("Dine out")
		groceries := db.MustCategoryID("Groceries")

		db.MustAdd(
			testutil.Expense("120").On(testutil.Date(2025, time.March, 3, nil)).At("Cafe Aroma").In(dineOut).OnCard(visa.ID),
			testutil.Expense("80").On(testutil.Date(2025, time.March, 9, nil)).At("Cafe Aroma").In(dineOut),
			testutil.Expense("100").On(testutil.Date(2025, time.March, 12, nil)).At("Fuel").OnCard(visa.ID),
			testutil.Expense("300").On(testutil.Date(2025, time.March, 15, nil)).At("Imtiaz").In(groceries),
			// Previous card cycle and previous month.
			testutil.Expense("55").On(testutil.Date(2025, time.February, 18, nil)).At("Last cycle").OnCard(visa.ID),
		)
	})

	out := h.run("card", "status")
	assert.Contains(t, out, "Spent $220.00 of $1,000.00 in 2 expenses")
	assert.Contains(t, out, "Available $780.00")

	out = h.run("pace")
	assert.Contains(t, out, "On pace")
	assert.Contains(t, out, "Under the plan by $900.00")

	out = h.run("insights")
	assert.Contains(t, out, "Top merchant: Imtiaz")
	assert.Contains(t, out, "Card $220.00")
	assert.Contains(t, out, "Cash $380.00")

	out = h.run("expense", "list")
	assert.Contains(t, out, "$600.00")
	assert.NotContains(t, out, "Last cycle")
}

func TestReceiptCommand(t *testing.T) {
	h := newHarness(t)

	receiptText := "CAFE AROMA\n03/14/2025\nLatte 4.50\nCroissant 3.25\nTOTAL 7.75\n"

	out, err := h.runWithInput(receiptText, "receipt")
	require.NoError(t, err)
	assert.Contains(t, out, "Date:  Fri Mar 14")
	assert.Contains(t, out, "Total: 7.75")
	assert.Contains(t, out, "TOTAL 7.75")

	out, err = h.runWithInput(receiptText, "receipt", "--save", "-m", "Cafe Aroma", "--category", "Dine out")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged $7.75 on Fri Mar 14")

	// Hiding the candidate table does not limit what can be saved.
	out, err = h.runWithInput(receiptText, "receipt", "--top", "0", "--save")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged $7.75 on Fri Mar 14")

	_, err = h.runWithInput(receiptText, "receipt", "--save", "--pick", "99")
	assert.True(t, common.IsUserError(err), "pick out of range: %v", err)

	path := filepath.Join(h.dir, "receipt.txt")
	require.NoError(t, os.WriteFile(path, []byte("thank you\n"), 0600))
	out = h.run("receipt", path)
	assert.Contains(t, out, "No amount found")

	_, err = h.runWithInput("", "receipt", filepath.Join(h.dir, "missing.txt"))
	assert.True(t, common.IsUserError(err))
}

func TestImportOFX(t *testing.T) {
	h := newHarness(t)

	path := filepath.Join(h.dir, "march.qfx")
	require.NoError(t, os.WriteFile(path, []byte(statementOFX), 0600))

	out := h.run("import-ofx", path, "--dry-run")
	assert.Contains(t, out, "Found 2 expenses from 2025-03-03 to 2025-03-10, total $150.50")
	assert.Contains(t, out, "Skipped 1 credits")
	assert.Contains(t, out, "Dry run")

	out = h.run("import-ofx", filepath.Join(h.dir, "*.qfx"), "--category", "Groceries")
	assert.Contains(t, out, "Imported 2 expenses (0 already present)")

	out = h.run("import-ofx", path)
	assert.Contains(t, out, "Imported 0 expenses (2 already present)")

	out = h.run("expense", "list")
	assert.Contains(t, out, "Whole Foods Market")
	assert.Contains(t, out, "Groceries")

	out = h.run("backup", "list")
	assert.Equal(t, 2, strings.Count(out, "auto-import-"), "both imports took an automatic backup")

	_, err := h.runWithInput("", "import-ofx", filepath.Join(h.dir, "*.ofx"))
	assert.True(t, common.IsUserError(err))
}

func TestCategoriesCommands(t *testing.T) {
	h := newHarness(t)

	out := h.run("categories", "seed")
	assert.Contains(t, out, "All default categories already exist")

	out = h.run("categories", "add", "Pets", "--emoji", "🐾", "--color", "#AA5500", "--budget", "200")
	assert.Contains(t, out, "Created category Pets")

	_, err := h.runWithInput("", "categories", "add", "Pets")
	assert.True(t, common.IsUserError(err))

	out = h.run("categories", "budget", "Groceries", "300")
	assert.Contains(t, out, "Groceries budget for March 2025 set to $300.00")

	h.run("expense", "add", "150", "--category", "Groceries")

	out = h.run("categories", "list")
	assert.Contains(t, out, "Pets")
	assert.Contains(t, out, "$200.00")
	assert.Contains(t, out, "$150.00")
	assert.Contains(t, out, "$300.00")
}

func TestRemindersAndSettings(t *testing.T) {
	h := newHarness(t)

	out := h.run("reminders", "show")
	assert.Contains(t, out, "Level: quiet")
	assert.Contains(t, out, "No reminders scheduled")

	out = h.run("reminders", "set", "subtle")
	assert.Contains(t, out, "Reminders set to subtle")
	assert.Contains(t, out, "daily at 16:30")
	assert.Contains(t, out, "daily at 20:00")

	out = h.run("reminders", "show", "-n", "3")
	assert.Contains(t, out, "Sat Mar 15 16:30")
	assert.Contains(t, out, "Sat Mar 15 20:00")
	assert.Contains(t, out, "Sun Mar 16 16:30")

	_, err := h.runWithInput("", "reminders", "set", "loud")
	assert.True(t, common.IsUserError(err))

	out = h.run("settings", "currency", "pkr")
	assert.Contains(t, out, "Currency set to PKR")
	assert.Contains(t, out, "takes precedence")

	out = h.run("settings", "show")
	assert.Contains(t, out, "PKR")
	assert.Contains(t, out, "Monday")
	assert.Contains(t, out, h.dbPath)

	_, err = h.runWithInput("", "settings", "currency", "dollars")
	assert.True(t, common.IsUserError(err))
}

func TestBackupCommands(t *testing.T) {
	h := newHarness(t)

	h.run("expense", "add", "10", "-m", "kept")
	out := h.run("backup", "create", "before", "-m", "first")
	assert.Contains(t, out, "Created backup before with 1 expense")

	h.run("expense", "add", "20", "-m", "lost")

	out, err := h.runWithInput("no\n", "backup", "restore", "before")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing restored")

	out = h.run("backup", "restore", "before", "-y")
	assert.Contains(t, out, "Restored backup before")

	out = h.run("expense", "list")
	assert.Contains(t, out, "kept")
	assert.NotContains(t, out, "lost")

	_, err = h.runWithInput("", "backup", "restore", "missing", "-y")
	assert.True(t, common.IsUserError(err))
	_, err = h.runWithInput("", "backup", "create", "../escape")
	assert.True(t, common.IsUserError(err))

	out = h.run("backup", "delete", "before")
	assert.Contains(t, out, "Deleted backup before")
	out = h.run("backup", "list")
	assert.Contains(t, out, "No backups yet")
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "512 B", formatSize(512))
	assert.Equal(t, "1.5 KiB", formatSize(1536))
	assert.Equal(t, "2.0 MiB", formatSize(2*1024*1024))
}

// newAppFor returns an app configured like the harness commands.
func newAppFor(h *harness) *app {
	h.t.Helper()
	a := newApp()
	a.now = func() time.Time { return h.now }
	require.NoError(h.t, a.initConfig(h.cfgPath))
	return a
}
