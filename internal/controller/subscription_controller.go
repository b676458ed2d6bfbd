package controller

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/checkout/session"
	"github.com/stripe/stripe-go/v74/customer"
	"github.com/stripe/stripe-go/v74/invoice"
	"github.com/stripe/stripe-go/v74/invoiceitem"
	"github.com/stripe/stripe-go/v74/subscription"
	"github.com/stripe/stripe-go/v74/webhook"

	"furnishcare_backend/internal/model"
	"furnishcare_backend/internal/repository"
	"furnishcare_backend/pkg/booking"
	"furnishcare_backend/pkg/database"
	"furnishcare_backend/pkg/email"
	"furnishcare_backend/pkg/plan"
	"furnishcare_backend/pkg/utils/jwt"
)

type CheckoutSessionInput struct {
	PlanID     string `json:"plan_id" validate:"required"`
	SuccessURL string `json:"success_url" validate:"required"`
	CancelURL  string `json:"cancel_url" validate:"required"`
}

func InitSubscriptionController() {
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
}

func ListPlans(c *fiber.Ctx) error {
	return c.JSON(plan.List())
}

func CreateCheckoutSession(c *fiber.Ctx) error {
	input := new(CheckoutSessionInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}
	if input.PlanID == "" || input.SuccessURL == "" || input.CancelURL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing required fields",
		})
	}

	p, ok := plan.Get(plan.PlanID(input.PlanID))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid plan",
		})
	}

	claims := c.Locals("user").(*jwt.Claims)

	var user model.User
	if err := database.DB.First(&user, claims.UserID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	customerID, err := ensureStripeCustomer(&user)
	if err != nil {
		log.Printf("Could not create Stripe customer for user %d: %v", user.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create Stripe customer",
		})
	}

	params := &stripe.CheckoutSessionParams{
		Customer: stripe.String(customerID),
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(p.StripePriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(input.SuccessURL + "?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(input.CancelURL),
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{
				"plan_id": string(p.ID),
				"user_id": strconv.FormatUint(uint64(user.ID), 10),
			},
		},
	}
	params.AddMetadata("plan_id", string(p.ID))
	params.AddMetadata("user_id", strconv.FormatUint(uint64(user.ID), 10))
	params.SetIdempotencyKey(uuid.NewString())

	sess, err := session.New(params)
	if err != nil {
		log.Printf("Could not create checkout session: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create checkout session",
		})
	}

	return c.JSON(fiber.Map{
		"url": sess.URL,
	})
}

func ensureStripeCustomer(user *model.User) (string, error) {
	if user.StripeCustomerID != "" {
		return user.StripeCustomerID, nil
	}

	params := &stripe.CustomerParams{
		Email: stripe.String(user.Email),
		Name:  stripe.String(user.GetFullName()),
	}
	if user.PhoneNumber != "" {
		params.Phone = stripe.String(user.PhoneNumber)
	}
	params.AddMetadata("user_id", strconv.FormatUint(uint64(user.ID), 10))

	stripeCustomer, err := customer.New(params)
	if err != nil {
		return "", err
	}

	if err := database.DB.Model(user).Update("stripe_customer_id", stripeCustomer.ID).Error; err != nil {
		return "", err
	}

	return stripeCustomer.ID, nil
}

func GetMySubscription(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var sub model.Subscription
	if err := database.DB.Where("user_id = ? AND status = ?", claims.UserID, model.SubscriptionStatusActive).
		Preload("Payments").First(&sub).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No active subscription found",
		})
	}

	return c.JSON(sub)
}

func GetCancellationFee(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var sub model.Subscription
	if err := database.DB.Where("user_id = ? AND status = ?", claims.UserID, model.SubscriptionStatusActive).
		First(&sub).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No active subscription found",
		})
	}

	fee := booking.CalculateCancellationFee(plan.PlanID(sub.PlanID), sub.ServiceEndTime, time.Now())

	return c.JSON(fiber.Map{
		"subscription_id":  sub.ID,
		"plan_id":          sub.PlanID,
		"buy_date":         sub.BuyDate,
		"service_end_time": sub.ServiceEndTime,
		"should_apply_fee": fee.ShouldApplyFee,
		"fee_cents":        fee.FeeAmountCents,
		"fee_formatted":    fee.FeeAmountFormatted(),
		"months_charged":   fee.MonthsCharged,
		"reason":           fee.Reason,
	})
}

// CancelSubscription applies the early-cancellation fee (one month's plan
// cost while the service window is still open) to the final invoice and
// cancels on Stripe. The local status flips to expired when the
// customer.subscription.deleted webhook lands.
func CancelSubscription(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var sub model.Subscription
	if err := database.DB.Where("user_id = ? AND status = ?", claims.UserID, model.SubscriptionStatusActive).
		Preload("User").First(&sub).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No active subscription found",
		})
	}

	fee := booking.CalculateCancellationFee(plan.PlanID(sub.PlanID), sub.ServiceEndTime, time.Now())

	if err := cancelOnStripe(&sub, fee); err != nil {
		log.Printf("Could not cancel Stripe subscription %s: %v", sub.StripeSubscriptionID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not cancel Stripe subscription",
		})
	}

	if email.GlobalEmailService != nil {
		err := email.GlobalEmailService.SendSubscriptionCancelledEmail(
			sub.User.Email,
			sub.User.GetFullName(),
			planDisplayName(sub.PlanID),
			fee.FeeAmountFormatted(),
			fee.ShouldApplyFee,
		)
		if err != nil {
			log.Printf("Could not send cancellation email: %v", err)
		}
	}

	return c.JSON(fiber.Map{
		"message":       "Subscription cancelled successfully",
		"fee_cents":     fee.FeeAmountCents,
		"fee_formatted": fee.FeeAmountFormatted(),
		"reason":        fee.Reason,
	})
}

func cancelOnStripe(sub *model.Subscription, fee booking.CancellationFee) error {
	if fee.ShouldApplyFee && fee.FeeAmountCents > 0 {
		itemParams := &stripe.InvoiceItemParams{
			Customer:     stripe.String(sub.StripeCustomerID),
			Amount:       stripe.Int64(fee.FeeAmountCents),
			Currency:     stripe.String(string(stripe.CurrencyUSD)),
			Description:  stripe.String("Early cancellation fee"),
			Subscription: stripe.String(sub.StripeSubscriptionID),
		}
		if _, err := invoiceitem.New(itemParams); err != nil {
			return err
		}
	}

	cancelParams := &stripe.SubscriptionCancelParams{
		InvoiceNow: stripe.Bool(true),
		Prorate:    stripe.Bool(false),
	}
	_, err := subscription.Cancel(sub.StripeSubscriptionID, cancelParams)
	return err
}

func HandleStripeWebhook(c *fiber.Ctx) error {
	webhookSecret := os.Getenv("STRIPE_WEBHOOK_SECRET")

	payload := c.Body()
	signatureHeader := c.Get("Stripe-Signature")

	event, err := webhook.ConstructEvent(payload, signatureHeader, webhookSecret)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid webhook signature",
		})
	}

	log.Printf("Processing Stripe webhook event: %s", event.Type)

	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return c.Status(fiber.StatusBadRequest).Send(nil)
		}
		if err := handleCheckoutCompleted(c, &sess); err != nil {
			log.Printf("Error handling checkout completion: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Webhook processing failed",
			})
		}

	case "customer.subscription.deleted":
		var subData stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &subData); err != nil {
			return c.Status(fiber.StatusBadRequest).Send(nil)
		}
		if err := handleSubscriptionDeleted(c, &subData); err != nil {
			log.Printf("Error handling subscription deletion: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Webhook processing failed",
			})
		}

	case "invoice.payment_succeeded":
		var inv stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
			return c.Status(fiber.StatusBadRequest).Send(nil)
		}
		if err := handleInvoicePaymentSucceeded(&inv); err != nil {
			log.Printf("Error handling invoice payment: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Webhook processing failed",
			})
		}

	default:
		log.Printf("Unhandled Stripe event type: %s", event.Type)
	}

	return c.SendStatus(fiber.StatusOK)
}

func handleCheckoutCompleted(c *fiber.Ctx, sess *stripe.CheckoutSession) error {
	if sess.Subscription == nil {
		log.Printf("Checkout session %s has no subscription, skipping", sess.ID)
		return nil
	}
	stripeSubID := sess.Subscription.ID

	// The plan runs for exactly one service year; Stripe stops billing after
	// the 12th cycle instead of renewing forever.
	now := time.Now()
	cancelAt := now.AddDate(1, 0, 0).Unix()
	updateParams := &stripe.SubscriptionParams{
		CancelAt: stripe.Int64(cancelAt),
	}
	if _, err := subscription.Update(stripeSubID, updateParams); err != nil {
		log.Printf("Could not schedule cancel_at for subscription %s: %v", stripeSubID, err)
	}

	planID := sess.Metadata["plan_id"]
	userIDRaw := sess.Metadata["user_id"]
	userID64, err := strconv.ParseUint(userIDRaw, 10, 32)
	if err != nil {
		return errors.New("checkout session metadata is missing user_id")
	}
	userID := uint(userID64)

	p, ok := plan.Get(plan.PlanID(planID))
	if !ok {
		return booking.ErrUnknownPlan
	}

	repo := repository.NewSubscriptionRepository(database.DB)

	sub, err := repo.FindByStripeID(c.Context(), stripeSubID)
	if errors.Is(err, booking.ErrNoActiveSubscription) {
		start, end := booking.ComputeServiceWindow(now)
		sub = &model.Subscription{
			UserID:               userID,
			PlanID:               planID,
			Status:               model.SubscriptionStatusActive,
			StripeSubscriptionID: stripeSubID,
			BuyDate:              now,
			ServiceStartTime:     start,
			ServiceEndTime:       end,
			ServicesLeft:         p.VisitsPerServiceYear,
		}
		if sess.Customer != nil {
			sub.StripeCustomerID = sess.Customer.ID
		}
		if err := repo.Create(c.Context(), sub); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	if sess.Invoice != nil {
		recordPayment(sess.Invoice.ID, sub)
	}

	var user model.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		return err
	}

	if email.GlobalEmailService != nil {
		err := email.GlobalEmailService.SendSubscriptionPurchasedEmail(
			user.Email,
			user.GetFullName(),
			planDisplayName(planID),
			plan.FormatAmount(p.PriceCents),
			sub.ServiceStartTime,
			sub.ServiceEndTime,
			p.VisitsPerServiceYear,
		)
		if err != nil {
			log.Printf("Could not send purchase email: %v", err)
		}
	}

	log.Printf("Checkout completed for user %d, subscription %s", userID, stripeSubID)
	return nil
}

func handleSubscriptionDeleted(c *fiber.Ctx, subData *stripe.Subscription) error {
	repo := repository.NewSubscriptionRepository(database.DB)

	sub, err := repo.MarkExpired(c.Context(), subData.ID, time.Now())
	if err != nil {
		return err
	}

	log.Printf("Subscription %s expired for user %d", subData.ID, sub.UserID)
	return nil
}

func handleInvoicePaymentSucceeded(inv *stripe.Invoice) error {
	if inv.Subscription == nil {
		return nil
	}

	var sub model.Subscription
	if err := database.DB.Where("stripe_subscription_id = ?", inv.Subscription.ID).
		First(&sub).Error; err != nil {
		// Checkout for this subscription has not landed yet; the
		// checkout.session.completed handler records the first invoice.
		log.Printf("No local subscription for invoice %s yet, skipping", inv.ID)
		return nil
	}

	recordPayment(inv.ID, &sub)
	return nil
}

// recordPayment stores one Payment row per invoice, idempotent on invoice id.
func recordPayment(invoiceID string, sub *model.Subscription) {
	inv, err := invoice.Get(invoiceID, nil)
	invoiceLink := ""
	if err != nil {
		log.Printf("Could not retrieve invoice %s: %v", invoiceID, err)
	} else {
		invoiceLink = inv.HostedInvoiceURL
	}

	payment := model.Payment{
		InvoiceID:      invoiceID,
		InvoiceLink:    invoiceLink,
		UserID:         sub.UserID,
		SubscriptionID: sub.ID,
	}
	if err := database.DB.Where("invoice_id = ?", invoiceID).
		FirstOrCreate(&payment).Error; err != nil {
		log.Printf("Could not record payment for invoice %s: %v", invoiceID, err)
	}
}

func planDisplayName(planID string) string {
	if p, ok := plan.Get(plan.PlanID(planID)); ok {
		return p.Name + " plan"
	}
	return planID + " plan"
}
