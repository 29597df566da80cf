package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
)

// TelegramService pushes operational notifications (new bookings, tier
// upgrades) to an admin chat. With no token configured every call is a
// logged no-op.
type TelegramService struct {
	botToken    string
	adminChatID string
}

// NewTelegramService creates a new TelegramService.
func NewTelegramService(botToken, adminChatID string) *TelegramService {
	return &TelegramService{
		botToken:    botToken,
		adminChatID: adminChatID,
	}
}

type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// SendMessage sends a message to the specified chat.
func (s *TelegramService) SendMessage(chatID, text string) error {
	if s.botToken == "" {
		log.Println("[Telegram] Bot token not configured")
		return nil
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", s.botToken)

	msg := telegramMessage{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "HTML",
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Printf("[Telegram] Failed to send message: %v", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[Telegram] Unexpected status: %d", resp.StatusCode)
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}

	return nil
}

// SendToAdmin sends a message to the admin chat.
func (s *TelegramService) SendToAdmin(text string) error {
	if s.adminChatID == "" {
		log.Println("[Telegram] Admin chat ID not configured")
		return nil
	}
	return s.SendMessage(s.adminChatID, text)
}

// BookingNotification contains booking data for the admin notification.
type BookingNotification struct {
	BookingID  string
	HotelName  string
	GuestName  string
	CheckIn    string
	CheckOut   string
	RoomsCount int
	TotalCost  float64
	PointsUsed int
}

// FormatPrice formats an amount with thousand separators.
func FormatPrice(amount float64) string {
	intAmount := int64(amount)
	str := fmt.Sprintf("%d", intAmount)

	var result strings.Builder
	length := len(str)
	for i, digit := range str {
		if i > 0 && (length-i)%3 == 0 {
			result.WriteString(",")
		}
		result.WriteRune(digit)
	}

	return "$" + result.String()
}

// NotifyNewBooking sends a new-booking notification to the admin chat.
func (s *TelegramService) NotifyNewBooking(booking BookingNotification) error {
	if s.adminChatID == "" {
		return nil
	}

	paymentText := FormatPrice(booking.TotalCost)
	if booking.PointsUsed > 0 {
		paymentText = fmt.Sprintf("%d points", booking.PointsUsed)
	}

	message := fmt.Sprintf(`<b>NEW BOOKING</b>
<b>Hotel:</b> %s
<b>Guest:</b> %s
<b>Dates:</b> %s to %s
<b>Rooms:</b> %d
<b>Payment:</b> %s
<b>Ref:</b> %s`,
		booking.HotelName,
		booking.GuestName,
		booking.CheckIn,
		booking.CheckOut,
		booking.RoomsCount,
		paymentText,
		booking.BookingID,
	)

	return s.SendToAdmin(strings.TrimSpace(message))
}

// NotifyTierUpgrade announces a membership upgrade to the admin chat.
func (s *TelegramService) NotifyTierUpgrade(guestName, tier string) error {
	if s.adminChatID == "" {
		return nil
	}

	message := fmt.Sprintf(`<b>TIER UPGRADE</b>
<b>Guest:</b> %s
<b>New tier:</b> %s`,
		guestName,
		tier,
	)

	return s.SendToAdmin(strings.TrimSpace(message))
}
