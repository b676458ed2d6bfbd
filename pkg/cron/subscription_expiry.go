package cron

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"furnishcare_backend/internal/model"
	"furnishcare_backend/pkg/database"
	"furnishcare_backend/pkg/email"
	"furnishcare_backend/pkg/plan"
)

func InitSubscriptionExpiryCron() {
	c := cron.New()

	_, err := c.AddFunc("0 9 * * *", func() {
		notifyEndingSubscriptions()
		notifyExpiredSubscriptions()
	})

	if err != nil {
		log.Printf("Could not initialize subscription expiry cron: %v", err)
		return
	}

	c.Start()
	log.Printf("Subscription expiry cron initialized")
}

// notifyEndingSubscriptions warns customers whose service window closes in
// exactly 14 or 3 days, so nobody is emailed twice for the same milestone.
func notifyEndingSubscriptions() {
	log.Println("Checking for ending subscriptions...")

	warningDays := []int{14, 3}

	for _, days := range warningDays {
		targetDate := time.Now().AddDate(0, 0, days).Format("2006-01-02")

		var subs []model.Subscription
		err := database.DB.Where("DATE(service_end_time) = ? AND status = ?",
			targetDate, model.SubscriptionStatusActive).
			Preload("User").
			Find(&subs).Error

		if err != nil {
			log.Printf("Error fetching ending subscriptions: %v", err)
			continue
		}

		log.Printf("Found %d subscriptions ending in %d days", len(subs), days)

		for _, sub := range subs {
			if email.GlobalEmailService == nil {
				continue
			}

			err := email.GlobalEmailService.SendSubscriptionEndingEmail(
				sub.User.Email,
				sub.User.GetFullName(),
				planName(sub.PlanID),
				days,
				sub.ServiceEndTime,
			)
			if err != nil {
				log.Printf("Error sending ending warning to %s: %v", sub.User.Email, err)
			}
		}
	}
}

// notifyExpiredSubscriptions mails customers whose subscription expired
// yesterday. Expiry itself happens in the Stripe webhook; this is only the
// notification.
func notifyExpiredSubscriptions() {
	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")

	var subs []model.Subscription
	err := database.DB.Where("DATE(service_end_time) = ? AND status = ?",
		yesterday, model.SubscriptionStatusExpired).
		Preload("User").
		Find(&subs).Error

	if err != nil {
		log.Printf("Error fetching expired subscriptions: %v", err)
		return
	}

	log.Printf("Found %d subscriptions expired yesterday", len(subs))

	for _, sub := range subs {
		if email.GlobalEmailService == nil {
			continue
		}

		err := email.GlobalEmailService.SendSubscriptionExpiredEmail(
			sub.User.Email,
			sub.User.GetFullName(),
			planName(sub.PlanID),
		)
		if err != nil {
			log.Printf("Error sending expired notice to %s: %v", sub.User.Email, err)
		}
	}
}

func planName(planID string) string {
	if p, ok := plan.Get(plan.PlanID(planID)); ok {
		return p.Name + " plan"
	}
	return planID + " plan"
}
