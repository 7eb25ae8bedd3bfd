package services

import (
	"fmt"
	"strings"

	"grocery-deal-finder/models"
	"grocery-deal-finder/utils"
)

type ReportService struct {
	logger *utils.Logger
}

func NewReportService(logger *utils.Logger) *ReportService {
	return &ReportService{logger: logger}
}

// Generate aggregates one run's accepted deals into summary stats.
func (s *ReportService) Generate(result models.RunResult) *models.RunReport {
	report := &models.RunReport{
		TotalDeals: len(result.AllDeals),
		NewDeals:   len(result.NewDeals),
	}

	if len(result.AllDeals) == 0 {
		return report
	}

	var percentTotal float64
	for _, d := range result.AllDeals {
		report.TotalSavings += d.Savings
		percentTotal += d.SavingsPercent
		if report.BestDeal == nil || d.Savings > report.BestDeal.Savings {
			report.BestDeal = d
		}
	}
	report.TotalSavings = round2(report.TotalSavings)
	report.AveragePercent = round2(percentTotal / float64(len(result.AllDeals)))

	return report
}

// Print renders the run summary to the console.
func (s *ReportService) Print(r *models.RunReport, result models.RunResult) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  🛒 DOUBLE-SAVINGS DEALS\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	fmt.Printf("\033[1;33m  Overview\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Deals found            : \033[1m%d\033[0m\n", r.TotalDeals)
	fmt.Printf("  New since last check   : \033[1m%d\033[0m\n", r.NewDeals)
	if r.TotalDeals > 0 {
		fmt.Printf("  Total potential savings: \033[1;32m$%.2f\033[0m\n", r.TotalSavings)
		fmt.Printf("  Average discount       : \033[1;32m%.1f%%\033[0m\n", r.AveragePercent)
	}
	fmt.Println()

	if r.BestDeal != nil {
		fmt.Printf("\033[1;33m  Best Deal\033[0m\n")
		fmt.Printf("  %s\n", thin)
		fmt.Printf("  %s\n", truncate(r.BestDeal.ProductName, 50))
		fmt.Printf("  Was $%.2f → Sale $%.2f → Final \033[1;31m$%.2f\033[0m\n",
			r.BestDeal.OriginalPrice, r.BestDeal.SalePrice, r.BestDeal.FinalPrice)
		fmt.Printf("  Save \033[1;32m$%.2f (%.0f%%)\033[0m\n", r.BestDeal.Savings, r.BestDeal.SavingsPercent)
		fmt.Println()
	}

	fmt.Printf("\033[1;33m  New Deals\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(result.NewDeals) == 0 {
		fmt.Printf("  Nothing new this cycle\n")
	} else {
		for i, d := range result.NewDeals {
			fmt.Printf("  \033[1m%d.\033[0m %-40s \033[1;32m$%.2f off\033[0m\n",
				i+1, truncate(d.ProductName, 38), d.Savings)
		}
	}

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
