package purchase

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"sadakat-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// -------------------------
// Sahte Store / Evaluator
// -------------------------

type fakeStore struct {
	branches map[uint]*models.Branch

	failPurchase bool
	failItems    bool
	balance      int64
	balanceErr   error

	createdPurchases []*models.Purchase
	createdItems     [][]models.PurchaseItem
	nextID           uint
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		branches: map[uint]*models.Branch{
			5: {ID: 5, OrganizationID: 7, Name: "Merkez"},
		},
		balance: 100,
	}
}

func (f *fakeStore) GetBranch(id uint) (*models.Branch, error) {
	b, ok := f.branches[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return b, nil
}

func (f *fakeStore) CreatePurchase(p *models.Purchase) error {
	if f.failPurchase {
		return errors.New("insert failed")
	}
	f.nextID++
	p.ID = f.nextID
	p.PurchaseNumber = fmt.Sprintf("ALV-%06d", f.nextID)
	f.createdPurchases = append(f.createdPurchases, p)
	return nil
}

func (f *fakeStore) CreatePurchaseItems(items []models.PurchaseItem) error {
	if f.failItems {
		return errors.New("bulk insert failed")
	}
	f.createdItems = append(f.createdItems, items)
	return nil
}

func (f *fakeStore) BeneficiaryBalance(id uint) (int64, error) {
	if f.balanceErr != nil {
		return 0, f.balanceErr
	}
	return f.balance, nil
}

func (f *fakeStore) writes() int {
	n := len(f.createdPurchases)
	for _, items := range f.createdItems {
		n += len(items)
	}
	return n
}

type fakeEvaluator struct {
	points *int64
	err    error
	calls  int
}

func (f *fakeEvaluator) Calculate(amount decimal.Decimal, organizationID uint, branchID, categoryID *uint, at time.Time) (*int64, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.points, nil
}

func ptsPtr(n int64) *int64 { return &n }

func validInput() CreateInput {
	return CreateInput{
		BeneficiaryID: 1,
		CashierID:     2,
		BranchID:      5,
		Items: []ItemInput{
			{Name: "Widget", Quantity: 2, UnitPrice: decimal.RequireFromString("10.00")},
			{Name: "Gadget", Quantity: 1, UnitPrice: decimal.RequireFromString("5.00")},
		},
	}
}

// -------------------------
// Doğrulama
// -------------------------

func TestCreateMissingIDs(t *testing.T) {
	cases := []CreateInput{
		{CashierID: 2, BranchID: 5, Items: validInput().Items},
		{BeneficiaryID: 1, BranchID: 5, Items: validInput().Items},
		{BeneficiaryID: 1, CashierID: 2, Items: validInput().Items},
	}

	for i, in := range cases {
		store := newFakeStore()
		eval := &fakeEvaluator{points: ptsPtr(10)}
		svc := NewService(store, eval)

		_, opError := svc.Create(in)
		if opError == nil || opError.Kind != ErrValidation {
			t.Fatalf("case %d: ErrValidation bekleniyordu, geldi: %+v", i, opError)
		}
		if store.writes() != 0 || eval.calls != 0 {
			t.Fatalf("case %d: doğrulama hatasında yan etki olmamalı", i)
		}
	}
}

func TestCreateEmptyItems(t *testing.T) {
	store := newFakeStore()
	eval := &fakeEvaluator{points: ptsPtr(10)}
	svc := NewService(store, eval)

	in := validInput()
	in.Items = nil

	_, opError := svc.Create(in)
	if opError == nil || opError.Kind != ErrValidation {
		t.Fatalf("ErrValidation bekleniyordu, geldi: %+v", opError)
	}
	if store.writes() != 0 || eval.calls != 0 {
		t.Fatal("boş sepette hiçbir yazma/çağrı olmamalı")
	}
}

func TestCreateInvalidItems(t *testing.T) {
	cases := []ItemInput{
		{Name: "", Quantity: 1, UnitPrice: decimal.RequireFromString("1.00")},
		{Name: "   ", Quantity: 1, UnitPrice: decimal.RequireFromString("1.00")},
		{Name: "Widget", Quantity: 0, UnitPrice: decimal.RequireFromString("1.00")},
		{Name: "Widget", Quantity: -3, UnitPrice: decimal.RequireFromString("1.00")},
		{Name: "Widget", Quantity: 1, UnitPrice: decimal.RequireFromString("-0.01")},
	}

	for i, item := range cases {
		store := newFakeStore()
		eval := &fakeEvaluator{points: ptsPtr(10)}
		svc := NewService(store, eval)

		in := validInput()
		in.Items = []ItemInput{item}

		_, opError := svc.Create(in)
		if opError == nil || opError.Kind != ErrValidation {
			t.Fatalf("case %d: ErrValidation bekleniyordu, geldi: %+v", i, opError)
		}
		if store.writes() != 0 {
			t.Fatalf("case %d: geçersiz satırda yazma olmamalı", i)
		}
	}
}

// -------------------------
// Akış hataları
// -------------------------

func TestCreateBranchNotFound(t *testing.T) {
	store := newFakeStore()
	eval := &fakeEvaluator{points: ptsPtr(10)}
	svc := NewService(store, eval)

	in := validInput()
	in.BranchID = 99

	_, opError := svc.Create(in)
	if opError == nil || opError.Kind != ErrNotFound {
		t.Fatalf("ErrNotFound bekleniyordu, geldi: %+v", opError)
	}
	if store.writes() != 0 || eval.calls != 0 {
		t.Fatal("şube bulunamayınca yazma/puan çağrısı olmamalı")
	}
}

func TestCreateEvaluatorFails(t *testing.T) {
	store := newFakeStore()
	eval := &fakeEvaluator{err: errors.New("db function error")}
	svc := NewService(store, eval)

	_, opError := svc.Create(validInput())
	if opError == nil || opError.Kind != ErrCalculation {
		t.Fatalf("ErrCalculation bekleniyordu, geldi: %+v", opError)
	}
	if len(store.createdPurchases) != 0 {
		t.Fatal("puan hesabı başarısızken header yazılmamalı")
	}
}

func TestCreateHeaderInsertFails(t *testing.T) {
	store := newFakeStore()
	store.failPurchase = true
	eval := &fakeEvaluator{points: ptsPtr(10)}
	svc := NewService(store, eval)

	_, opError := svc.Create(validInput())
	if opError == nil || opError.Kind != ErrPersistence {
		t.Fatalf("ErrPersistence bekleniyordu, geldi: %+v", opError)
	}
	if len(store.createdItems) != 0 {
		t.Fatal("header yazılamayınca item yazılmamalı")
	}
}

// Header commit edildikten sonra item insert'i başarısız olursa: işlem hata
// raporlar ama header kaydı store'da kalır. Bu davranış bilinçli korunuyor.
func TestCreateItemInsertFailsHeaderRemains(t *testing.T) {
	store := newFakeStore()
	store.failItems = true
	eval := &fakeEvaluator{points: ptsPtr(25)}
	svc := NewService(store, eval)

	_, opError := svc.Create(validInput())
	if opError == nil || opError.Kind != ErrPersistence {
		t.Fatalf("ErrPersistence bekleniyordu, geldi: %+v", opError)
	}
	if len(store.createdPurchases) != 1 {
		t.Fatalf("header kaydı kalmalıydı, adet: %d", len(store.createdPurchases))
	}
	if len(store.createdItems) != 0 {
		t.Fatal("item yazılmamış olmalı")
	}
}

// -------------------------
// Başarılı akış
// -------------------------

func TestCreateScenarioWidgetGadget(t *testing.T) {
	store := newFakeStore()
	store.balance = 125
	eval := &fakeEvaluator{points: ptsPtr(25)}
	svc := NewService(store, eval)

	result, opError := svc.Create(validInput())
	if opError != nil {
		t.Fatalf("beklenmeyen hata: %v", opError)
	}

	if !result.TotalAmount.Equal(decimal.RequireFromString("25.00")) {
		t.Fatalf("total_amount 25.00 olmalıydı: %s", result.TotalAmount)
	}
	if result.PointsEarned != 25 {
		t.Fatalf("points_earned 25 olmalıydı: %d", result.PointsEarned)
	}
	if result.BeneficiaryNewBalance != 125 {
		t.Fatalf("bakiye 125 olmalıydı: %d", result.BeneficiaryNewBalance)
	}
	if result.OrganizationID != 7 {
		t.Fatalf("organizasyon 7 olmalıydı: %d", result.OrganizationID)
	}
	if result.PurchaseNumber == "" {
		t.Fatal("alışveriş numarası atanmış olmalı")
	}

	items := store.createdItems[0]
	if len(items) != 2 {
		t.Fatalf("2 satır bekleniyordu: %d", len(items))
	}
	// floor(20*25/25)=20, floor(5*25/25)=5
	if items[0].PointsEarned != 20 {
		t.Fatalf("Widget puanı 20 olmalıydı: %d", items[0].PointsEarned)
	}
	if items[1].PointsEarned != 5 {
		t.Fatalf("Gadget puanı 5 olmalıydı: %d", items[1].PointsEarned)
	}
	if !items[0].Subtotal.Equal(decimal.RequireFromString("20.00")) {
		t.Fatalf("Widget ara toplamı 20.00 olmalıydı: %s", items[0].Subtotal)
	}
}

func TestCreateNilPointsMeansZero(t *testing.T) {
	store := newFakeStore()
	eval := &fakeEvaluator{points: nil} // uygun kural yok
	svc := NewService(store, eval)

	result, opError := svc.Create(validInput())
	if opError != nil {
		t.Fatalf("beklenmeyen hata: %v", opError)
	}
	if result.PointsEarned != 0 {
		t.Fatalf("puan 0 olmalıydı: %d", result.PointsEarned)
	}
	for _, item := range store.createdItems[0] {
		if item.PointsEarned != 0 {
			t.Fatalf("satır puanı 0 olmalıydı: %d", item.PointsEarned)
		}
	}
}

func TestCreateBalanceReadFailureIsNotFatal(t *testing.T) {
	store := newFakeStore()
	store.balanceErr = errors.New("connection reset")
	eval := &fakeEvaluator{points: ptsPtr(10)}
	svc := NewService(store, eval)

	result, opError := svc.Create(validInput())
	if opError != nil {
		t.Fatalf("bakiye okunamasa da işlem başarılı olmalı: %v", opError)
	}
	if result.BeneficiaryNewBalance != 0 {
		t.Fatalf("okunamayan bakiye 0 raporlanmalı: %d", result.BeneficiaryNewBalance)
	}
}

// -------------------------
// Puan paylaştırma
// -------------------------

func TestApportionmentNeverOverAllocates(t *testing.T) {
	cases := []struct {
		name   string
		items  []ItemInput
		points int64
	}{
		{
			name: "tam bölünmeyen",
			items: []ItemInput{
				{Name: "A", Quantity: 1, UnitPrice: decimal.RequireFromString("10.00")},
				{Name: "B", Quantity: 1, UnitPrice: decimal.RequireFromString("10.00")},
				{Name: "C", Quantity: 1, UnitPrice: decimal.RequireFromString("10.00")},
			},
			points: 10,
		},
		{
			name: "kuruşlu fiyatlar",
			items: []ItemInput{
				{Name: "A", Quantity: 3, UnitPrice: decimal.RequireFromString("3.33")},
				{Name: "B", Quantity: 7, UnitPrice: decimal.RequireFromString("0.47")},
				{Name: "C", Quantity: 1, UnitPrice: decimal.RequireFromString("12.99")},
			},
			points: 17,
		},
		{
			name: "tam bölünen",
			items: []ItemInput{
				{Name: "A", Quantity: 2, UnitPrice: decimal.RequireFromString("10.00")},
				{Name: "B", Quantity: 1, UnitPrice: decimal.RequireFromString("5.00")},
			},
			points: 25,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			total := decimal.Zero
			for _, item := range tc.items {
				total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
			}

			items := buildItems(1, tc.items, tc.points, total)

			var sum int64
			for _, item := range items {
				if item.PointsEarned < 0 {
					t.Fatalf("satır puanı negatif olamaz: %d", item.PointsEarned)
				}
				sum += item.PointsEarned
			}
			if sum > tc.points {
				t.Fatalf("satır toplamı (%d) header puanını (%d) aşamaz", sum, tc.points)
			}
		})
	}
}

func TestApportionmentExactDivisionEqualsTotal(t *testing.T) {
	items := []ItemInput{
		{Name: "Widget", Quantity: 2, UnitPrice: decimal.RequireFromString("10.00")},
		{Name: "Gadget", Quantity: 1, UnitPrice: decimal.RequireFromString("5.00")},
	}
	total := decimal.RequireFromString("25.00")

	built := buildItems(1, items, 25, total)

	var sum int64
	for _, item := range built {
		sum += item.PointsEarned
	}
	if sum != 25 {
		t.Fatalf("tam bölünmede satır toplamı header'a eşit olmalı: %d", sum)
	}
}

func TestApportionmentZeroTotalAmount(t *testing.T) {
	// Tüm satırlar sıfır fiyatlı: sıfıra bölme olmamalı, puanlar 0 kalmalı
	items := []ItemInput{
		{Name: "Hediye", Quantity: 1, UnitPrice: decimal.Zero},
		{Name: "Numune", Quantity: 2, UnitPrice: decimal.Zero},
	}

	built := buildItems(1, items, 10, decimal.Zero)
	for _, item := range built {
		if item.PointsEarned != 0 {
			t.Fatalf("sıfır toplamda satır puanı 0 olmalı: %d", item.PointsEarned)
		}
	}
}
