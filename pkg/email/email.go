// pkg/email/email.go
package email

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"time"
)

type EmailService struct {
	apiKey    string
	from      string
	templates *template.Template
}

type EmailData struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Html    string `json:"html"`
}

// Template data structures
type WelcomeEmailData struct {
	FullName string
}

type SubscriptionPurchasedData struct {
	FullName         string
	PlanName         string
	PriceFormatted   string
	ServiceStartTime time.Time
	ServiceEndTime   time.Time
	ServicesIncluded int
}

type BookingAcknowledgementData struct {
	FullName  string
	BookingID string
	Date      time.Time
	Address   string
}

type SubscriptionEndingData struct {
	FullName      string
	PlanName      string
	RemainingDays int
	EndDate       time.Time
}

type SubscriptionExpiredData struct {
	FullName string
	PlanName string
}

type SubscriptionCancelledData struct {
	FullName     string
	PlanName     string
	FeeFormatted string
	FeeApplied   bool
}

type CustomEmailData struct {
	Subject string
	Body    template.HTML
}

func NewEmailService(apiKey, from string) (*EmailService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend API key is required")
	}

	templates, err := loadTemplates()
	if err != nil {
		return nil, fmt.Errorf("error loading email templates: %v", err)
	}

	if from == "" {
		from = "FurnishCare <info@furnishcare.com>"
	}

	return &EmailService{
		apiKey:    apiKey,
		from:      from,
		templates: templates,
	}, nil
}

func (s *EmailService) sendTemplateEmail(to, subject, templateName string, data interface{}) error {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, templateName, data); err != nil {
		return fmt.Errorf("template execution error: %v", err)
	}

	emailData := EmailData{
		From:    s.from,
		To:      to,
		Subject: subject,
		Html:    body.String(),
	}

	jsonData, err := json.Marshal(emailData)
	if err != nil {
		return fmt.Errorf("error marshaling email data: %v", err)
	}

	req, err := http.NewRequest("POST", "https://api.resend.com/emails", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("error creating request: %v", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("error sending email: %v", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("resend API error: %s", string(respBody))
	}

	log.Printf("Sent %s email to %s", templateName, to)
	return nil
}

// Email sending methods
func (s *EmailService) SendWelcomeEmail(email, fullName string) error {
	data := WelcomeEmailData{
		FullName: fullName,
	}
	return s.sendTemplateEmail(email, "Welcome to FurnishCare! 🛋️", "welcome.html", data)
}

func (s *EmailService) SendSubscriptionPurchasedEmail(
	email, fullName, planName, priceFormatted string,
	serviceStart, serviceEnd time.Time,
	servicesIncluded int,
) error {
	data := SubscriptionPurchasedData{
		FullName:         fullName,
		PlanName:         planName,
		PriceFormatted:   priceFormatted,
		ServiceStartTime: serviceStart,
		ServiceEndTime:   serviceEnd,
		ServicesIncluded: servicesIncluded,
	}
	return s.sendTemplateEmail(email, "Your FurnishCare Subscription Is Active 🎉", "subscription_purchased.html", data)
}

func (s *EmailService) SendBookingAcknowledgementEmail(
	email, fullName, bookingID, address string,
	date time.Time,
) error {
	data := BookingAcknowledgementData{
		FullName:  fullName,
		BookingID: bookingID,
		Date:      date,
		Address:   address,
	}
	return s.sendTemplateEmail(email, "Your Service Visit Is Booked 🔨", "booking_acknowledgement.html", data)
}

func (s *EmailService) SendSubscriptionEndingEmail(
	email, fullName, planName string,
	remainingDays int,
	endDate time.Time,
) error {
	data := SubscriptionEndingData{
		FullName:      fullName,
		PlanName:      planName,
		RemainingDays: remainingDays,
		EndDate:       endDate,
	}
	return s.sendTemplateEmail(
		email,
		fmt.Sprintf("Your FurnishCare Plan Ends in %d Days ⚠️", remainingDays),
		"subscription_ending.html",
		data,
	)
}

func (s *EmailService) SendSubscriptionExpiredEmail(email, fullName, planName string) error {
	data := SubscriptionExpiredData{
		FullName: fullName,
		PlanName: planName,
	}
	return s.sendTemplateEmail(email, "Your FurnishCare Subscription Has Expired", "subscription_expired.html", data)
}

func (s *EmailService) SendSubscriptionCancelledEmail(email, fullName, planName, feeFormatted string, feeApplied bool) error {
	data := SubscriptionCancelledData{
		FullName:     fullName,
		PlanName:     planName,
		FeeFormatted: feeFormatted,
		FeeApplied:   feeApplied,
	}
	return s.sendTemplateEmail(email, "Your Subscription Has Been Cancelled", "subscription_cancelled.html", data)
}

func (s *EmailService) SendCustomEmail(email, subject, htmlBody string) error {
	data := CustomEmailData{
		Subject: subject,
		Body:    template.HTML(htmlBody),
	}
	return s.sendTemplateEmail(email, subject, "custom.html", data)
}
