// Package notification delivers transaction receipts to account holders.
package notification

import (
	"context"
	"fmt"
	"log/slog"

	portssvc "github.com/nucash/nucash_backend/internal/core/ports/services"
	"github.com/nucash/nucash_backend/internal/middleware"
	"github.com/nucash/nucash_backend/pkg/config"
	"gopkg.in/gomail.v2"
)

// EmailNotifier sends receipt emails over SMTP. When no SMTP host is
// configured it logs the receipt and drops it, which keeps local and test
// deployments mail-free.
type EmailNotifier struct {
	dialer *gomail.Dialer
	from   string
}

// NewEmailNotifier creates a notifier from SMTP configuration. A nil dialer
// means log-and-drop mode.
func NewEmailNotifier(cfg *config.Config) *EmailNotifier {
	n := &EmailNotifier{from: cfg.SMTPFrom}
	if cfg.SMTPHost != "" {
		n.dialer = gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
	}
	return n
}

// Ensure EmailNotifier implements the portssvc.Notifier interface
var _ portssvc.Notifier = (*EmailNotifier)(nil)

// SendReceipt formats and delivers one receipt email.
func (n *EmailNotifier) SendReceipt(ctx context.Context, receipt portssvc.Receipt) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if n.dialer == nil {
		logger.Info("SMTP not configured, dropping receipt",
			slog.String("kind", string(receipt.Kind)),
			slog.String("transaction_id", receipt.TransactionID))
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", receipt.To)
	m.SetHeader("Subject", subjectFor(receipt.Kind))
	m.SetBody("text/plain", bodyFor(receipt))

	if err := n.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send receipt email: %w", err)
	}

	logger.Info("Receipt email sent",
		slog.String("kind", string(receipt.Kind)),
		slog.String("transaction_id", receipt.TransactionID))
	return nil
}

func subjectFor(kind portssvc.ReceiptKind) string {
	switch kind {
	case portssvc.ReceiptRefund:
		return "NUCash - Refund Receipt"
	case portssvc.ReceiptCashIn:
		return "NUCash - Cash-In Receipt"
	default:
		return "NUCash - Payment Receipt"
	}
}

func bodyFor(r portssvc.Receipt) string {
	return fmt.Sprintf(
		"Hi %s,\n\n"+
			"Transaction: %s\n"+
			"Reference: %s\n"+
			"Amount: %s\n"+
			"Previous balance: %s\n"+
			"New balance: %s\n"+
			"Timestamp: %s\n\n"+
			"If you do not recognize this transaction, please contact the treasury office.\n",
		r.Name,
		r.Kind,
		r.TransactionID,
		r.Amount.StringFixed(2),
		r.PreviousBalance.StringFixed(2),
		r.NewBalance.StringFixed(2),
		r.Timestamp.Format("2006-01-02 15:04:05 MST"),
	)
}
