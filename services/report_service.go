package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/restaurant-pos/models"
	"gorm.io/gorm"
)

type Range string

const (
	RangeDaily   Range = "daily"
	RangeWeekly  Range = "weekly"
	RangeMonthly Range = "monthly"
)

const topProductsLimit = 10

// ParseRange: kosong berarti daily
func ParseRange(s string) (Range, error) {
	switch Range(strings.ToLower(strings.TrimSpace(s))) {
	case "", RangeDaily:
		return RangeDaily, nil
	case RangeWeekly:
		return RangeWeekly, nil
	case RangeMonthly:
		return RangeMonthly, nil
	default:
		return "", fmt.Errorf("%w: unknown range %q", ErrInvalidInput, s)
	}
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// RangeStart: daily mulai tengah malam lokal hari ini, weekly 6 hari
// sebelumnya, monthly 29 hari sebelumnya.
func RangeStart(r Range, now time.Time, loc *time.Location) time.Time {
	midnight := startOfDay(now, loc)
	switch r {
	case RangeWeekly:
		return midnight.AddDate(0, 0, -6)
	case RangeMonthly:
		return midnight.AddDate(0, 0, -29)
	default:
		return midnight
	}
}

func bucketCount(r Range) int {
	switch r {
	case RangeWeekly:
		return 7
	case RangeMonthly:
		return 30
	default:
		return 24
	}
}

type RevenueBucket struct {
	Label   string          `json:"label"`
	Start   time.Time       `json:"start"`
	Revenue decimal.Decimal `json:"revenue"`
	Orders  int             `json:"orders"`
}

type ProductSales struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

type RevenueReport struct {
	Range         Range           `json:"range"`
	Start         time.Time       `json:"start"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	OrderCount    int             `json:"order_count"`
	ItemsSold     int             `json:"items_sold"`
	AverageTicket decimal.Decimal `json:"average_ticket"`
	Buckets       []RevenueBucket `json:"buckets"`
	TopProducts   []ProductSales  `json:"top_products"`
}

func newBuckets(r Range, start time.Time) []RevenueBucket {
	buckets := make([]RevenueBucket, bucketCount(r))
	for i := range buckets {
		var bStart time.Time
		var label string
		switch r {
		case RangeDaily:
			bStart = start.Add(time.Duration(i) * time.Hour)
			label = fmt.Sprintf("%02dh", bStart.Hour())
		case RangeWeekly:
			bStart = start.AddDate(0, 0, i)
			label = bStart.Weekday().String()[:3]
		default:
			bStart = start.AddDate(0, 0, i)
			label = fmt.Sprintf("%02d", bStart.Day())
		}
		buckets[i] = RevenueBucket{Label: label, Start: bStart, Revenue: decimal.Zero}
	}
	return buckets
}

// bucketIndex mengembalikan -1 untuk waktu di luar rentang.
func bucketIndex(r Range, start, created time.Time, loc *time.Location) int {
	local := created.In(loc)
	if local.Before(start) {
		return -1
	}
	var idx int
	if r == RangeDaily {
		idx = int(local.Sub(start) / time.Hour)
	} else {
		idx = int(startOfDay(local, loc).Sub(start).Hours() / 24)
	}
	if idx >= bucketCount(r) {
		return -1
	}
	return idx
}

// BuildRevenueReport menjumlahkan pendapatan dari item order, bukan dari
// orders.total_amount. Order yang dibatalkan tidak dihitung.
func BuildRevenueReport(orders []models.Order, r Range, start time.Time, loc *time.Location) RevenueReport {
	start = start.In(loc)
	report := RevenueReport{
		Range:         r,
		Start:         start,
		TotalRevenue:  decimal.Zero,
		AverageTicket: decimal.Zero,
		Buckets:       newBuckets(r, start),
		TopProducts:   []ProductSales{},
	}

	products := make(map[string]*ProductSales)
	for _, order := range orders {
		if order.Status == models.OrderCancelled || len(order.Items) == 0 {
			continue
		}
		idx := bucketIndex(r, start, order.CreatedAt, loc)
		if idx < 0 {
			continue
		}

		orderRevenue := decimal.Zero
		for _, item := range order.Items {
			subtotal := item.Subtotal()
			orderRevenue = orderRevenue.Add(subtotal)
			report.ItemsSold += item.Quantity

			ps, ok := products[item.ProductID]
			if !ok {
				ps = &ProductSales{ProductID: item.ProductID, Revenue: decimal.Zero}
				if item.Product != nil {
					ps.Name = item.Product.Name
				}
				products[item.ProductID] = ps
			}
			ps.Quantity += item.Quantity
			ps.Revenue = ps.Revenue.Add(subtotal)
		}

		report.OrderCount++
		report.TotalRevenue = report.TotalRevenue.Add(orderRevenue)
		report.Buckets[idx].Revenue = report.Buckets[idx].Revenue.Add(orderRevenue)
		report.Buckets[idx].Orders++
	}

	if report.OrderCount > 0 {
		report.AverageTicket = report.TotalRevenue.Div(decimal.NewFromInt(int64(report.OrderCount))).Round(2)
	}

	for _, ps := range products {
		report.TopProducts = append(report.TopProducts, *ps)
	}
	sort.Slice(report.TopProducts, func(i, j int) bool {
		a, b := report.TopProducts[i], report.TopProducts[j]
		if a.Quantity != b.Quantity {
			return a.Quantity > b.Quantity
		}
		if !a.Revenue.Equal(b.Revenue) {
			return a.Revenue.GreaterThan(b.Revenue)
		}
		return a.Name < b.Name
	})
	if len(report.TopProducts) > topProductsLimit {
		report.TopProducts = report.TopProducts[:topProductsLimit]
	}
	return report
}

type ReportService struct {
	db  *gorm.DB
	loc *time.Location
	now func() time.Time
}

func NewReportService(db *gorm.DB, loc *time.Location) *ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportService{db: db, loc: loc, now: time.Now}
}

func (s *ReportService) Revenue(ctx context.Context, r Range) (*RevenueReport, error) {
	start := RangeStart(r, s.now(), s.loc)

	var orders []models.Order
	if err := s.db.WithContext(ctx).
		Preload("Items.Product").
		Where("created_at >= ? AND status <> ?", start.UTC(), models.OrderCancelled).
		Find(&orders).Error; err != nil {
		return nil, err
	}

	report := BuildRevenueReport(orders, r, start, s.loc)
	return &report, nil
}
