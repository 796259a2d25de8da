package publisher

import (
	"encoding/json"
	"log"
	"strings"

	"github.com/nats-io/nats.go"

	"github.com/JackaZhai/RailwaySystem/report"
)

// PublisherMetrics receives publish outcomes; nil disables instrumentation.
type PublisherMetrics interface {
	AlertPublishedInc()
	AlertPublishErrInc()
	NATSSetConnected(connected bool)
}

// AlertPublisher pushes generated suggestions and OD alerts onto NATS so
// downstream dashboards can react without polling the API.
type AlertPublisher struct {
	nc            *nats.Conn
	subjectPrefix string
	metrics       PublisherMetrics
}

func NewAlertPublisher(url, subjectPrefix string, m PublisherMetrics) (*AlertPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("railway-analytics"),
		nats.DisconnectHandler(func(_ *nats.Conn) {
			if m != nil {
				m.NATSSetConnected(false)
			}
			log.Printf("nats disconnected")
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			if m != nil {
				m.NATSSetConnected(true)
			}
			log.Printf("nats reconnected")
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			if m != nil {
				m.NATSSetConnected(false)
			}
			log.Printf("nats closed")
		}),
	)
	if err != nil {
		return nil, err
	}
	if m != nil {
		m.NATSSetConnected(true)
	}
	return &AlertPublisher{nc: nc, subjectPrefix: subjectPrefix, metrics: m}, nil
}

func (p *AlertPublisher) Close() {
	if p.nc != nil {
		_ = p.nc.Drain()
		p.nc.Close()
	}
}

// PublishSuggestion emits one suggestion on <prefix>.suggestion.<line>.
func (p *AlertPublisher) PublishSuggestion(s report.Suggestion) error {
	subject := p.subjectPrefix + ".suggestion." + subjectToken(s.LineID)
	return p.publish(subject, s)
}

// PublishODAlert emits one OD alert on <prefix>.od.<origin>.
func (p *AlertPublisher) PublishODAlert(a report.ODAlert) error {
	subject := p.subjectPrefix + ".od." + subjectToken(a.Origin)
	return p.publish(subject, a)
}

func (p *AlertPublisher) publish(subject string, payload any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	err = p.nc.Publish(subject, b)
	if p.metrics != nil {
		if err != nil {
			p.metrics.AlertPublishErrInc()
		} else {
			p.metrics.AlertPublishedInc()
		}
	}
	return err
}

func subjectToken(s string) string {
	s = strings.TrimSpace(s)
	// NATS tokens cannot contain spaces, '>', '*', or '.'
	repl := strings.NewReplacer(" ", "_", ".", "_", ">", "_", "*", "_", "/", "_", "\t", "_")
	s = repl.Replace(s)
	if s == "" {
		s = "_"
	}
	return s
}
