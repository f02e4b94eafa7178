package service

import (
	"bytes"
	"context"
	"html/template"
	"strings"

	customerdomain "github.com/smallbiznis/pestora/internal/customer/domain"
	"github.com/smallbiznis/pestora/internal/narrative"
	"github.com/smallbiznis/pestora/internal/visit/domain"
	"go.uber.org/zap"
)

var notificationTmpl = template.Must(template.New("visit_notification").Parse(`
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Ziyaret Raporu</h2>
  <p>Sayın {{.CustomerName}},</p>
  <p>{{.VisitDate}} tarihli {{.VisitType}} ziyareti tamamlanmıştır.</p>
  <table cellpadding="6" cellspacing="0" border="0">
    <tr><td><strong>Rapor No</strong></td><td>{{.ReportNumber}}</td></tr>
    {{if .BranchName}}<tr><td><strong>Şube</strong></td><td>{{.BranchName}}</td></tr>{{end}}
  </table>
  {{if .Explanation}}<p>{{.Explanation}}</p>{{end}}
  <p>Saygılarımızla</p>
</body>
</html>
`))

type notificationData struct {
	CustomerName string
	BranchName   string
	VisitDate    string
	VisitType    string
	ReportNumber string
	Explanation  string
}

// notify sends the completion email to the customer and branch contacts.
// Delivery is best effort; failures are logged and never fail the save.
func (s *Service) notify(ctx context.Context, visit *domain.Visit, customer *customerdomain.Customer, branch *customerdomain.Branch) {
	data := notificationData{
		CustomerName: customer.Name,
		VisitDate:    visit.ScheduledAt.Format("02.01.2006"),
		VisitType:    narrative.VisitTypeLabel(visit.VisitType),
		ReportNumber: visit.ReportNumber,
		Explanation:  visit.Explanation,
	}
	if branch != nil {
		data.BranchName = branch.Name
	}

	var body bytes.Buffer
	if err := notificationTmpl.Execute(&body, data); err != nil {
		s.log.Error("render notification email", zap.Error(err))
		return
	}
	subject := "Ziyaret Raporu - " + visit.ReportNumber

	for _, to := range s.recipients(customer, branch) {
		if err := s.email.Send(ctx, []string{to}, subject, body.String()); err != nil {
			s.log.Warn("notification email failed",
				zap.String("visit_id", visit.ID.String()),
				zap.String("to", to),
				zap.Error(err),
			)
			continue
		}
		s.metrics.ObserveEmailSent()
	}
}

func (s *Service) recipients(customer *customerdomain.Customer, branch *customerdomain.Branch) []string {
	seen := make(map[string]struct{}, 2)
	out := make([]string, 0, 2)
	add := func(addr string) {
		addr = strings.TrimSpace(addr)
		if addr == "" {
			return
		}
		key := strings.ToLower(addr)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, addr)
	}
	add(customer.Email)
	if branch != nil {
		add(branch.Email)
	}
	return out
}
