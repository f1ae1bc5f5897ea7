package repository

import (
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/merchantiq/feecost/internal/domain"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := InitDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func sampleTxn(id, merchantID string, day time.Time) domain.TransactionRecord {
	return domain.TransactionRecord{
		TransactionID:   id,
		TransactionDate: day,
		MerchantID:      merchantID,
		Amount:          d("100.00"),
		TransactionType: "Sale",
		CardBrand:       domain.BrandVisa,
		BatchID:         "batch-1",
	}
}

func TestTransactionBulkInsertSkipsDuplicates(t *testing.T) {
	repo := NewTransactionRepo(testDB(t))
	day := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	records := []domain.TransactionRecord{
		sampleTxn("T1", "M1", day),
		sampleTxn("T2", "M1", day),
	}

	inserted, err := repo.BulkInsert(records)
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	// Re-inserting the same batch plus one new record inserts only the new one.
	inserted, err = repo.BulkInsert(append(records, sampleTxn("T3", "M2", day)))
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestTransactionGetByID(t *testing.T) {
	repo := NewTransactionRepo(testDB(t))
	day := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	_, err := repo.BulkInsert([]domain.TransactionRecord{sampleTxn("T1", "M1", day)})
	require.NoError(t, err)

	rec, err := repo.GetByID("T1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "M1", rec.MerchantID)
	assert.True(t, rec.Amount.Equal(d("100.00")))
	assert.Equal(t, domain.BrandVisa, rec.CardBrand)
	assert.True(t, rec.TransactionDate.Equal(day))

	missing, err := repo.GetByID("nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestTransactionListFilterAndPaging(t *testing.T) {
	repo := NewTransactionRepo(testDB(t))
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	var records []domain.TransactionRecord
	for i := 0; i < 5; i++ {
		rec := sampleTxn(string(rune('A'+i)), "M1", base.AddDate(0, 0, i))
		if i%2 == 1 {
			rec.MerchantID = "M2"
			rec.TransactionType = "Refund"
		}
		records = append(records, rec)
	}
	_, err := repo.BulkInsert(records)
	require.NoError(t, err)

	t.Run("filter by merchant", func(t *testing.T) {
		got, total, err := repo.List(TransactionFilter{MerchantID: "M2"})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		assert.Len(t, got, 2)
	})

	t.Run("filter by type", func(t *testing.T) {
		got, total, err := repo.List(TransactionFilter{TransactionType: "Sale"})
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		assert.Len(t, got, 3)
	})

	t.Run("pagination", func(t *testing.T) {
		page1, total, err := repo.List(TransactionFilter{Page: 1, Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, 5, total)
		require.Len(t, page1, 2)

		page3, _, err := repo.List(TransactionFilter{Page: 3, Limit: 2})
		require.NoError(t, err)
		assert.Len(t, page3, 1)
	})

	t.Run("newest first", func(t *testing.T) {
		got, _, err := repo.List(TransactionFilter{})
		require.NoError(t, err)
		require.Len(t, got, 5)
		for i := 1; i < len(got); i++ {
			assert.False(t, got[i-1].TransactionDate.Before(got[i].TransactionDate))
		}
	})
}

func TestUploadRepo(t *testing.T) {
	repo := NewUploadRepo(testDB(t))

	exists, err := repo.ExistsByHash("abc")
	require.NoError(t, err)
	assert.False(t, exists)

	up := &domain.Upload{
		ID:          "u1",
		Filename:    "transactions.csv",
		FileType:    "csv",
		MerchantID:  "M1",
		FileHash:    "abc",
		RecordCount: 10,
		ErrorCount:  2,
		UploadedAt:  time.Now().UTC(),
	}
	require.NoError(t, repo.Insert(up))

	exists, err = repo.ExistsByHash("abc")
	require.NoError(t, err)
	assert.True(t, exists)

	uploads, err := repo.List(10)
	require.NoError(t, err)
	require.Len(t, uploads, 1)
	assert.Equal(t, "transactions.csv", uploads[0].Filename)
	assert.Equal(t, 10, uploads[0].RecordCount)
}

func TestMerchantUpsert(t *testing.T) {
	repo := NewMerchantRepo(testDB(t))

	rate := d("1.85")
	m := &domain.Merchant{
		MerchantID:  "M1",
		Name:        "Corner Grocery",
		MCC:         "5411",
		Industry:    "Grocery",
		CurrentRate: &rate,
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, repo.Upsert(m))

	got, err := repo.GetByID("M1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Corner Grocery", got.Name)
	require.NotNil(t, got.CurrentRate)
	assert.True(t, got.CurrentRate.Equal(rate))
	assert.Nil(t, got.FixedFee)

	// Upsert with the same ID updates in place.
	m.Name = "Corner Grocery II"
	m.MCC = "5499"
	require.NoError(t, repo.Upsert(m))

	got, err = repo.GetByID("M1")
	require.NoError(t, err)
	assert.Equal(t, "Corner Grocery II", got.Name)
	assert.Equal(t, "5499", got.MCC)

	all, err := repo.List()
	require.NoError(t, err)
	assert.Len(t, all, 1)

	missing, err := repo.GetByID("M9")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestReportRepo(t *testing.T) {
	repo := NewReportRepo(testDB(t))

	rep := &domain.CostReport{
		ID:               "r1",
		MerchantID:       "M1",
		Filename:         "cost_transactions.csv",
		MCC:              5499,
		TransactionCount: 100,
		UnmatchedCount:   4,
		TotalVolume:      d("12500.00"),
		TotalCost:        d("231.8750"),
		EffectiveRate:    d("0.018550"),
		CreatedAt:        time.Now().UTC(),
	}
	require.NoError(t, repo.Insert(rep))

	reports, err := repo.List(10)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	got := reports[0]
	assert.Equal(t, 5499, got.MCC)
	assert.Equal(t, 100, got.TransactionCount)
	assert.True(t, got.TotalVolume.Equal(d("12500.00")))
	assert.True(t, got.EffectiveRate.Equal(d("0.018550")))
}
