package services

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/campuseats/canteen/app/models"
	"github.com/campuseats/canteen/app/repositories"
)

// DashboardStats is the admin overview payload.
type DashboardStats struct {
	OrdersToday     int64             `json:"orders_today"`
	OrdersYesterday int64             `json:"orders_yesterday"`
	OrdersTrendPct  float64           `json:"orders_trend_pct"`
	RevenueToday    decimal.Decimal   `json:"revenue_today"`
	AvgOrderValue   decimal.Decimal   `json:"avg_order_value"`
	PendingOrders   int64             `json:"pending_orders"`
	TotalCustomers  int64             `json:"total_customers"`
	OrdersByHour    []int64           `json:"orders_by_hour"`
	WeeklyRevenue   []DailyRevenue    `json:"weekly_revenue"`
}

// DailyRevenue is one day of fulfilled-order revenue.
type DailyRevenue struct {
	Date    string          `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
}

// DashboardService aggregates order and customer counts for the admin
// overview.
type DashboardService struct {
	orders *repositories.OrderRepository
	users  *repositories.UserRepository
	now    func() time.Time
}

func NewDashboardService(orders *repositories.OrderRepository, users *repositories.UserRepository) *DashboardService {
	return &DashboardService{orders: orders, users: users, now: time.Now}
}

// Stats computes the overview for the current day in local time.
// Revenue counts only READY and COMPLETED orders.
func (s *DashboardService) Stats() (*DashboardStats, error) {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	yesterday := today.AddDate(0, 0, -1)
	tomorrow := today.AddDate(0, 0, 1)

	ordersToday, err := s.orders.CountBetween(today, tomorrow)
	if err != nil {
		return nil, err
	}
	ordersYesterday, err := s.orders.CountBetween(yesterday, today)
	if err != nil {
		return nil, err
	}
	revenueToday, err := s.orders.RevenueBetween(today, tomorrow)
	if err != nil {
		return nil, err
	}
	pending, err := s.orders.CountByStatus(models.StatusPending)
	if err != nil {
		return nil, err
	}
	customers, err := s.users.CountCustomers()
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		OrdersToday:     ordersToday,
		OrdersYesterday: ordersYesterday,
		RevenueToday:    revenueToday,
		AvgOrderValue:   decimal.Zero,
		PendingOrders:   pending,
		TotalCustomers:  customers,
		OrdersByHour:    make([]int64, 24),
	}
	if ordersToday > 0 {
		stats.AvgOrderValue = revenueToday.Div(decimal.NewFromInt(ordersToday)).Round(2)
	}
	if ordersYesterday > 0 {
		stats.OrdersTrendPct = float64(ordersToday-ordersYesterday) / float64(ordersYesterday) * 100
	}

	todaysOrders, err := s.orders.CreatedBetween(today, tomorrow)
	if err != nil {
		return nil, err
	}
	for _, o := range todaysOrders {
		stats.OrdersByHour[o.CreatedAt.In(now.Location()).Hour()]++
	}

	for d := 6; d >= 0; d-- {
		day := today.AddDate(0, 0, -d)
		revenue, err := s.orders.RevenueBetween(day, day.AddDate(0, 0, 1))
		if err != nil {
			return nil, err
		}
		stats.WeeklyRevenue = append(stats.WeeklyRevenue, DailyRevenue{
			Date:    day.Format("2006-01-02"),
			Revenue: revenue,
		})
	}
	return stats, nil
}
