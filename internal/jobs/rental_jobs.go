package jobs

import (
	"context"
	"time"

	"fleet-rental-backend/internal/domain"
	"fleet-rental-backend/internal/logger"
	"fleet-rental-backend/internal/metrics"
)

// MarkOverdueRentals advances ACTIVE rentals past their expected end
// date to OVERDUE in storage.
func (jr *JobRunner) MarkOverdueRentals() {
	jr.runWithRecovery("MarkOverdueRentals", func() {
		ctx := context.Background()

		marked, err := jr.services.Rental.MarkOverdueRentals(ctx, time.Now())
		if err != nil {
			logger.Error("Failed to mark overdue rentals", "error", err)
			return
		}

		metrics.OverdueRentalsMarked.Add(float64(len(marked)))
		logger.Info("Marked rentals as overdue", "count", len(marked))

		for _, rental := range marked {
			logger.Debug("Marked rental as overdue",
				"rental_id", rental.ID,
				"contract_number", rental.ContractNumber,
				"customer_id", rental.CustomerID,
				"expected_end_date", rental.ExpectedEndDate.Format("2006-01-02"))
		}
	})
}

// SendOverdueReminders emails the primary signer of every contract in
// stored OVERDUE status.
func (jr *JobRunner) SendOverdueReminders() {
	jr.runWithRecovery("SendOverdueReminders", func() {
		ctx := context.Background()
		repos := jr.store.Repos()

		page := 1
		sent := 0
		for {
			rentals, total, err := repos.Rentals.List(ctx, 0, 0, string(domain.RentalStatusOverdue), page, 100)
			if err != nil {
				logger.Error("Failed to list overdue rentals", "error", err)
				return
			}

			for _, rental := range rentals {
				customer, err := repos.Customers.GetByID(ctx, rental.CustomerID)
				if err != nil {
					logger.Error("Failed to load customer for overdue reminder",
						"rental_id", rental.ID, "error", err)
					continue
				}
				if customer.Email == "" {
					continue
				}
				if err := jr.services.Email.SendOverdueReminder(ctx, customer.Email, customer.FullName(), rental.ContractNumber, rental.ExpectedEndDate); err != nil {
					logger.Error("Failed to send overdue reminder",
						"rental_id", rental.ID, "error", err)
					continue
				}
				sent++
			}

			if page*100 >= total || len(rentals) == 0 {
				break
			}
			page++
		}

		logger.Info("Sent overdue reminders", "count", sent)
	})
}
