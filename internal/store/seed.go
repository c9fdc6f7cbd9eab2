package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

type seedRow struct {
	gender   string
	age      int
	income   float64
	spending int
	ageGroup string
	savings  float64
	credit   int
	loyalty  int
	category string
}

// seedRows is a small deterministic sample spanning both genders, every
// age cohort, and all three category labels, so fresh databases answer
// the suggestion queries meaningfully.
var seedRows = []seedRow{
	{"Male", 19, 15, 39, "18-25", 12.5, 620, 1, "Budget"},
	{"Male", 21, 15, 81, "18-25", 10.0, 640, 2, "Standard"},
	{"Female", 20, 16, 6, "18-25", 8.0, 605, 1, "Budget"},
	{"Female", 23, 16, 77, "18-25", 14.0, 655, 3, "Standard"},
	{"Female", 31, 17, 40, "26-35", 22.0, 680, 4, "Standard"},
	{"Female", 22, 17, 76, "18-25", 18.5, 635, 2, "Budget"},
	{"Female", 35, 18, 6, "26-35", 25.0, 700, 5, "Standard"},
	{"Female", 23, 18, 94, "18-25", 16.0, 645, 2, "Luxury"},
	{"Male", 64, 19, 3, "56-65", 48.0, 720, 12, "Budget"},
	{"Female", 30, 19, 72, "26-35", 28.0, 690, 6, "Luxury"},
	{"Male", 67, 19, 14, "66+", 52.0, 735, 15, "Standard"},
	{"Female", 35, 19, 99, "26-35", 30.0, 705, 7, "Luxury"},
	{"Female", 58, 20, 15, "56-65", 44.0, 715, 11, "Budget"},
	{"Female", 24, 20, 77, "18-25", 19.0, 650, 3, "Standard"},
	{"Male", 37, 20, 13, "36-45", 32.0, 695, 8, "Budget"},
	{"Male", 22, 20, 79, "18-25", 15.0, 630, 2, "Standard"},
	{"Female", 35, 21, 35, "26-35", 27.0, 685, 5, "Standard"},
	{"Male", 20, 21, 66, "18-25", 13.0, 625, 1, "Luxury"},
	{"Male", 52, 23, 29, "46-55", 40.0, 710, 10, "Budget"},
	{"Female", 35, 23, 98, "26-35", 29.0, 700, 6, "Luxury"},
	{"Male", 70, 24, 8, "66+", 56.0, 745, 18, "Budget"},
	{"Female", 25, 24, 73, "18-25", 20.0, 660, 3, "Luxury"},
	{"Female", 46, 25, 5, "46-55", 38.0, 708, 9, "Standard"},
	{"Male", 31, 25, 73, "26-35", 24.0, 688, 5, "Luxury"},
	{"Female", 68, 28, 14, "66+", 54.0, 740, 16, "Standard"},
	{"Male", 29, 28, 82, "26-35", 23.0, 682, 4, "Luxury"},
}

// Seed inserts the sample dataset when the customers table is empty.
// Seeding an already populated database is a no-op.
func (s *Store) Seed(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM customers").Scan(&count); err != nil {
		return 0, fmt.Errorf("count customers: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	insert := s.seedInsertSQL()
	for _, r := range seedRows {
		if _, err := tx.ExecContext(ctx, insert,
			r.gender, r.age, r.income, r.spending, r.ageGroup,
			r.savings, r.credit, r.loyalty, r.category); err != nil {
			return 0, fmt.Errorf("insert seed row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit seed transaction: %w", err)
	}
	return len(seedRows), nil
}

func (s *Store) seedInsertSQL() string {
	cols := []string{
		"gender", "age", "annual_income_k", "spending_score", "age_group",
		"estimated_savings_k", "credit_score", "loyalty_years", "preferred_category",
	}
	placeholders := make([]string, len(cols))
	for i := range cols {
		if s.driver == DriverPostgres {
			placeholders[i] = "$" + strconv.Itoa(i+1)
		} else {
			placeholders[i] = "?"
		}
	}
	return fmt.Sprintf("INSERT INTO customers (%s) VALUES (%s)",
		strings.Join(cols, ", "), strings.Join(placeholders, ", "))
}
