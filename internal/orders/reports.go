package orders

import (
	"sort"
	"time"
)

// StationStat aggregates outbound volume and collected revenue per station.
type StationStat struct {
	Station Station `json:"station"`
	Orders  int     `json:"orders"`
	Revenue int64   `json:"revenue"`
}

// DayRevenue is one point of the revenue-by-day series.
type DayRevenue struct {
	Date    string `json:"date"` // yyyy-mm-dd
	Revenue int64  `json:"revenue"`
}

// DashboardStats is the management overview computed across the snapshot.
type DashboardStats struct {
	TotalOrders  int           `json:"total_orders"`
	TotalRevenue int64         `json:"total_revenue"` // PAID only
	TotalUnpaid  int64         `json:"total_unpaid"`
	ByStation    []StationStat `json:"by_station"`
	RevenueByDay []DayRevenue  `json:"revenue_by_day"`
}

// ComputeDashboard derives the overview figures from a snapshot. Pure and
// input-order independent.
func ComputeDashboard(snapshot []Order) DashboardStats {
	stats := DashboardStats{}
	perStation := make(map[Station]*StationStat, len(Stations))
	for _, st := range Stations {
		perStation[st] = &StationStat{Station: st}
	}
	perDay := make(map[string]int64)

	for _, o := range snapshot {
		stats.TotalOrders++
		switch o.PaymentStatus {
		case Paid:
			stats.TotalRevenue += o.Cost
			perDay[o.CreatedAt.Local().Format("2006-01-02")] += o.Cost
		case Unpaid:
			stats.TotalUnpaid += o.Cost
		}
		if st, ok := perStation[o.SenderStation]; ok {
			st.Orders++
			if o.PaymentStatus == Paid {
				st.Revenue += o.Cost
			}
		}
	}

	for _, st := range Stations {
		stats.ByStation = append(stats.ByStation, *perStation[st])
	}
	stats.RevenueByDay = make([]DayRevenue, 0, len(perDay))
	for day, revenue := range perDay {
		stats.RevenueByDay = append(stats.RevenueByDay, DayRevenue{Date: day, Revenue: revenue})
	}
	sort.Slice(stats.RevenueByDay, func(i, j int) bool {
		return stats.RevenueByDay[i].Date < stats.RevenueByDay[j].Date
	})
	return stats
}

// DailyReport is the handoff manifest for one calendar day, optionally
// narrowed to orders touching one station as sender or receiver.
type DailyReport struct {
	Date         string  `json:"date"`
	Station      Station `json:"station,omitempty"` // empty = all stations
	Orders       []Order `json:"orders"`
	TotalRevenue int64   `json:"total_revenue"`
	TotalUnpaid  int64   `json:"total_unpaid"`
}

// ComputeDailyReport filters the snapshot to one day (and optionally one
// station, matched as sender or receiver) and totals collected vs
// outstanding fees.
func ComputeDailyReport(snapshot []Order, day time.Time, station Station) DailyReport {
	report := DailyReport{
		Date:    day.Local().Format("2006-01-02"),
		Station: station,
		Orders:  []Order{},
	}
	filter := DateFilter{Mode: DateExact, Day: day}
	for _, o := range snapshot {
		if !filter.Matches(o.CreatedAt, day) {
			continue
		}
		if station != "" && o.SenderStation != station && o.ReceiverStation != station {
			continue
		}
		report.Orders = append(report.Orders, o)
		switch o.PaymentStatus {
		case Paid:
			report.TotalRevenue += o.Cost
		case Unpaid:
			report.TotalUnpaid += o.Cost
		}
	}
	sortByCreatedDesc(report.Orders)
	return report
}
