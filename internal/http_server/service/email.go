// Package service
package service

import (
	"fmt"
	"html/template"
	"strings"
	"sync"
	"time"

	"github.com/vatger-pmp/pmp-server/internal/interfaces/config"
	"github.com/vatger-pmp/pmp-server/internal/interfaces/log"
	"github.com/vatger-pmp/pmp-server/internal/interfaces/operation"
	"gopkg.in/gomail.v2"
)

var (
	emailService *EmailService
	once         sync.Once
)

// EmailService sends workflow notifications. Every send is best effort;
// a broken SMTP setup must never fail the workflow that triggered it.
type EmailService struct {
	logger log.LoggerInterface
	config *config.EmailConfig
}

func NewEmailService(logger log.LoggerInterface, config *config.EmailConfig) *EmailService {
	once.Do(func() {
		emailService = &EmailService{
			logger: logger,
			config: config,
		}
	})
	return emailService
}

type assignmentTemplateData struct {
	TraineeName string
	MentorName  string
	Contact     string
}

type inviteTemplateData struct {
	TraineeCid  string
	Anmeldetext string
	URL         string
	ExpiresAt   string
	Contact     string
}

type sessionReleasedTemplateData struct {
	TraineeName string
	LessonType  string
	SessionDate string
	Contact     string
}

type checkrideResultTemplateData struct {
	TraineeName   string
	Result        string
	ScheduledDate string
	Contact       string
}

type cancellationReviewedTemplateData struct {
	TraineeName string
	Action      string
	Contact     string
}

var assignmentTemplate = template.Must(template.New("assignment").Parse(`
<p>Hallo {{.TraineeName}},</p>
<p>dir wurde ein Mentor zugeteilt: <b>{{.MentorName}}</b>. Dein Training im Pilot Mentoring Program beginnt in Kürze.</p>
<p>Bei Fragen erreichst du uns unter {{.Contact}}.</p>
`))

var inviteTemplate = template.Must(template.New("invite").Parse(`
<p>Hallo,</p>
<p>du wurdest zum Pilot Mentoring Program eingeladen (CID {{.TraineeCid}}).</p>
<p>{{.Anmeldetext}}</p>
<p>Nimm die Einladung hier an: <a href="{{.URL}}">{{.URL}}</a></p>
<p>Der Link ist gültig bis {{.ExpiresAt}}.</p>
<p>Bei Fragen erreichst du uns unter {{.Contact}}.</p>
`))

var sessionReleasedTemplate = template.Must(template.New("session_released").Parse(`
<p>Hallo {{.TraineeName}},</p>
<p>dein Mentor hat eine Session vom {{.SessionDate}} ({{.LessonType}}) freigegeben. Du findest die Details in deinem Trainingsprofil.</p>
<p>Bei Fragen erreichst du uns unter {{.Contact}}.</p>
`))

var checkrideResultTemplate = template.Must(template.New("checkride_result").Parse(`
<p>Hallo {{.TraineeName}},</p>
<p>das Ergebnis deines Checkrides vom {{.ScheduledDate}} wurde veröffentlicht: <b>{{.Result}}</b>.</p>
<p>Bei Fragen erreichst du uns unter {{.Contact}}.</p>
`))

var cancellationReviewedTemplate = template.Must(template.New("cancellation_reviewed").Parse(`
<p>Hallo {{.TraineeName}},</p>
<p>dein abgebrochenes Training wurde geprüft. Entscheidung: <b>{{.Action}}</b>.</p>
<p>Bei Fragen erreichst du uns unter {{.Contact}}.</p>
`))

func (emailService *EmailService) renderTemplate(tpl *template.Template, data interface{}) (string, error) {
	var sb strings.Builder
	if err := tpl.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (emailService *EmailService) send(to, subject string, tpl *template.Template, data interface{}) error {
	if emailService.config.EmailServer == nil {
		emailService.logger.DebugF("Email notifications disabled, skipping %q to %s", subject, to)
		return nil
	}
	if to == "" {
		emailService.logger.DebugF("No address for %q, skipping", subject)
		return nil
	}

	body, err := emailService.renderTemplate(tpl, data)
	if err != nil {
		return err
	}

	message := gomail.NewMessage()
	message.SetHeader("From", emailService.config.Sender)
	message.SetHeader("To", to)
	message.SetHeader("Subject", subject)
	message.SetBody("text/html", body)
	return emailService.config.EmailServer.DialAndSend(message)
}

func (emailService *EmailService) SendAssignmentEmail(trainee *operation.User, mentor *operation.User) error {
	return emailService.send(trainee.Email, "PMP: Mentor zugeteilt", assignmentTemplate, &assignmentTemplateData{
		TraineeName: trainee.Name,
		MentorName:  mentor.Name,
		Contact:     emailService.config.Contact,
	})
}

func (emailService *EmailService) SendInviteEmail(address string, invite *operation.MentorInvite, url string) error {
	return emailService.send(address, "PMP: Einladung zum Mentoring", inviteTemplate, &inviteTemplateData{
		TraineeCid:  fmt.Sprintf("%d", invite.TraineeCid),
		Anmeldetext: invite.Anmeldetext,
		URL:         url,
		ExpiresAt:   invite.ExpiresAt.Format(time.RFC1123),
		Contact:     emailService.config.Contact,
	})
}

func (emailService *EmailService) SendSessionReleasedEmail(trainee *operation.User, session *operation.TrainingSession) error {
	return emailService.send(trainee.Email, "PMP: Session freigegeben", sessionReleasedTemplate, &sessionReleasedTemplateData{
		TraineeName: trainee.Name,
		LessonType:  session.LessonType,
		SessionDate: session.SessionDate.Format("02.01.2006"),
		Contact:     emailService.config.Contact,
	})
}

func (emailService *EmailService) SendCheckrideResultEmail(trainee *operation.User, checkride *operation.Checkride) error {
	return emailService.send(trainee.Email, "PMP: Checkride-Ergebnis", checkrideResultTemplate, &checkrideResultTemplateData{
		TraineeName:   trainee.Name,
		Result:        string(checkride.Result),
		ScheduledDate: checkride.ScheduledDate.Format("02.01.2006 15:04"),
		Contact:       emailService.config.Contact,
	})
}

func (emailService *EmailService) SendCancellationReviewedEmail(trainee *operation.User, action string) error {
	return emailService.send(trainee.Email, "PMP: Trainingsabbruch geprüft", cancellationReviewedTemplate, &cancellationReviewedTemplateData{
		TraineeName: trainee.Name,
		Action:      action,
		Contact:     emailService.config.Contact,
	})
}
