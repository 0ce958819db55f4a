package notifications

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"strings"
	"time"

	"github.com/ranihwanifactory/mya/internal/catalog"
	"github.com/ranihwanifactory/mya/internal/leads"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const leadNotificationTemplate = `<!DOCTYPE html>
<html>
<body>
  <h3>새 견적 요청</h3>
  <p><strong>앱 이름:</strong> {{.AppName}}</p>
  <p><strong>카테고리:</strong> {{.CategoryLabel}}</p>
  <p><strong>선택 기능:</strong> {{range $i, $f := .FeatureNames}}{{if $i}}, {{end}}{{$f}}{{else}}없음{{end}}</p>
  <p><strong>예상 견적:</strong> {{.Price}}</p>
  <p><strong>고객명:</strong> {{.ClientName}}</p>
  <p><strong>이메일:</strong> {{.ClientEmail}}</p>
  <p><strong>연락처:</strong> {{.Contact}}</p>
  <p><strong>접수 시각:</strong> {{.SubmittedAt}}</p>
  <p><strong>ID:</strong> {{.ID}}</p>
  <p><strong>요청 내용:</strong><br/>{{.Description}}</p>
</body>
</html>`

const leadConfirmationTemplate = `<!DOCTYPE html>
<html>
<body>
  <p>{{.ClientName}}님, 안녕하세요.</p>
  <p>견적 요청이 정상적으로 접수되었습니다. 담당자가 검토 후 연락드리겠습니다.</p>
  <ul>
    <li>카테고리: {{.CategoryLabel}}</li>
    <li>선택 기능: {{range $i, $f := .FeatureNames}}{{if $i}}, {{end}}{{$f}}{{else}}없음{{end}}</li>
    <li>예상 견적: {{.Price}}</li>
  </ul>
  <p>안내된 금액은 참고용이며 실제 계약 금액과 다를 수 있습니다.</p>
  <p>접수 번호: {{.ID}}</p>
</body>
</html>`

var (
	leadNotificationTmpl = template.Must(template.New("lead_notification").Parse(leadNotificationTemplate))
	leadConfirmationTmpl = template.Must(template.New("lead_confirmation").Parse(leadConfirmationTemplate))
	krwPrinter           = message.NewPrinter(language.Korean)
)

type leadEmail struct {
	leads.ProjectRequest
	CategoryLabel string
	FeatureNames  []string
	Price         string
	SubmittedAt   string
}

// FormatKRW renders an amount in won with digit grouping, e.g. "6,500,000원".
func FormatKRW(amount int64) string {
	return krwPrinter.Sprintf("%d원", amount)
}

// LeadMailer emails new project requests to the studio and a receipt to the
// client.
type LeadMailer struct {
	client      *BrevoClient
	notifyEmail string
	catalog     *catalog.Catalog
	location    *time.Location
}

// NewLeadMailer renders submission times in loc, or UTC when loc is nil.
func NewLeadMailer(client *BrevoClient, notifyEmail string, cat *catalog.Catalog, loc *time.Location) *LeadMailer {
	if loc == nil {
		loc = time.UTC
	}
	return &LeadMailer{
		client:      client,
		notifyEmail: strings.TrimSpace(notifyEmail),
		catalog:     cat,
		location:    loc,
	}
}

func (m *LeadMailer) SendLeadNotification(ctx context.Context, req leads.ProjectRequest) (string, error) {
	if m.notifyEmail == "" {
		return "", errors.New("missing lead notification address")
	}
	html, err := m.render(leadNotificationTmpl, req)
	if err != nil {
		return "", err
	}
	subject := "새 견적 요청 - " + m.catalog.CategoryLabel(req.Category)
	return m.client.Send(ctx, Email{
		To:      m.notifyEmail,
		Subject: subject,
		HTML:    html,
		Tags:    []string{"lead-notification"},
	})
}

func (m *LeadMailer) SendLeadConfirmation(ctx context.Context, req leads.ProjectRequest) (string, error) {
	if req.ClientName == "" {
		req.ClientName = "고객"
	}
	html, err := m.render(leadConfirmationTmpl, req)
	if err != nil {
		return "", err
	}
	return m.client.Send(ctx, Email{
		To:      req.ClientEmail,
		ToName:  req.ClientName,
		Subject: "견적 요청이 접수되었습니다",
		HTML:    html,
		Tags:    []string{"lead-confirmation"},
	})
}

func (m *LeadMailer) render(tmpl *template.Template, req leads.ProjectRequest) (string, error) {
	data := leadEmail{
		ProjectRequest: req,
		CategoryLabel:  m.catalog.CategoryLabel(req.Category),
		FeatureNames:   make([]string, 0, len(req.SelectedFeatures)),
		Price:          FormatKRW(req.EstimatedPrice),
		SubmittedAt:    req.CreatedAt.In(m.location).Format("2006-01-02 15:04"),
	}
	for _, id := range req.SelectedFeatures {
		if f, ok := m.catalog.Feature(id); ok {
			data.FeatureNames = append(data.FeatureNames, f.Name)
		} else {
			data.FeatureNames = append(data.FeatureNames, id)
		}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
