package mqtt

import (
	"net/url"
	"strings"
	"sync"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"
)

// Handler is the callback when a message is received.
type Handler func(topic string, payload []byte)

// Queue wraps an MQTT client with a topic prefix. Handlers subscribed to
// the same filter share one broker subscription.
type Queue struct {
	Client       paho.Client
	TopicPrefix  string
	OnConnect    ConnectHandler
	OnDisconnect ConnectHandler

	subsLock sync.RWMutex
	filters  map[string]*topicFilter
}

// ConnectHandler is to handle connect/disconnect events.
type ConnectHandler func(*Queue)

// topicFilter holds the handlers of one subscribed filter. levels is nil
// for a filter without wildcards.
type topicFilter struct {
	levels []string
	subs   []*Subscription
}

func (f *topicFilter) match(topic string, levels []string) bool {
	if f.levels == nil {
		return false
	}
	return matchLevels(levels, f.levels)
}

// Subscription is a subscribed topic.
type Subscription struct {
	Token paho.Token

	queue   *Queue
	topic   string
	handler Handler
	closed  bool
}

func isWildcard(pattern string) bool {
	return strings.Contains(pattern, "+") || strings.HasSuffix(pattern, "#")
}

// MatchTopic matches topic with pattern. A trailing # matches the
// remaining levels, + matches exactly one level.
func MatchTopic(topic, pattern string) bool {
	return matchLevels(strings.Split(topic, "/"), strings.Split(pattern, "/"))
}

func matchLevels(topic, pattern []string) bool {
	for i, level := range pattern {
		if level == "#" && i+1 == len(pattern) {
			return true
		}
		if i >= len(topic) {
			return false
		}
		if level != "+" && level != topic[i] {
			return false
		}
	}
	return len(topic) == len(pattern)
}

// ClientOptionsFromURL creates ClientOptions from URL.
func ClientOptionsFromURL(serverURL string) (*paho.ClientOptions, string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, "", err
	}
	var server string
	if u.Scheme == "" || u.Scheme == "mqtt" {
		server = "tcp"
	} else {
		server = u.Scheme
	}
	server += "://" + u.Host

	topicPrefix := u.Path
	if strings.HasPrefix(topicPrefix, "/") {
		topicPrefix = topicPrefix[1:]
	}

	opts := paho.NewClientOptions()
	opts.AddBroker(server).
		SetAutoReconnect(true).
		SetCleanSession(true)
	if u.User != nil {
		opts.SetUsername(u.User.Username())
		if pwd, ok := u.User.Password(); ok {
			opts.SetPassword(pwd)
		}
	}

	if clientID := u.Query().Get("client-id"); clientID != "" {
		opts.SetClientID(clientID)
	}

	return opts, topicPrefix, nil
}

// NewQueue creates Queue.
func NewQueue(options *paho.ClientOptions, topicPrefix string) *Queue {
	q := &Queue{TopicPrefix: topicPrefix}
	options.SetOnConnectHandler(q.OnConnectHandler)
	options.SetConnectionLostHandler(q.ConnectionLostHandler)
	q.Client = paho.NewClient(options)
	return q
}

// NewQueueFromURL creates Queue from URL.
func NewQueueFromURL(brokerURL string) (*Queue, error) {
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	return NewQueue(opts, topicPrefix), nil
}

// Connect connects the client.
func (q *Queue) Connect() paho.Token {
	return q.Client.Connect()
}

// Close implements io.Closer.
func (q *Queue) Close() error {
	q.Client.Disconnect(0)
	return nil
}

// Sub subscribes a topic filter. The broker is asked only for the first
// handler of a filter.
func (q *Queue) Sub(topic string, handler Handler) *Subscription {
	sub := &Subscription{queue: q, topic: topic, handler: handler}
	q.subsLock.Lock()
	if q.filters == nil {
		q.filters = make(map[string]*topicFilter)
	}
	filter := q.filters[topic]
	newSub := filter == nil
	if newSub {
		filter = &topicFilter{}
		if isWildcard(topic) {
			filter.levels = strings.Split(topic, "/")
		}
		q.filters[topic] = filter
	}
	filter.subs = append(filter.subs, sub)
	q.subsLock.Unlock()

	if newSub {
		glog.V(2).Infof("SUB %q", q.TopicPrefix+topic)
		sub.Token = q.Client.Subscribe(q.TopicPrefix+topic, 0, q.dispatch)
	} else {
		sub.Token = &paho.DummyToken{}
	}
	return sub
}

// Pub publishes to a topic.
func (q *Queue) Pub(topic string, payload []byte) paho.Token {
	return q.PubWith(topic, payload, 0, false)
}

// PubWith publishes with QoS and retain settings.
func (q *Queue) PubWith(topic string, payload []byte, qos byte, retain bool) paho.Token {
	return q.Client.Publish(q.TopicPrefix+topic, qos, retain, payload)
}

// Resubscribe is used in OnConnect handler to subscribe all existing topics.
func (q *Queue) Resubscribe() paho.Token {
	q.subsLock.RLock()
	filters := make(map[string]byte, len(q.filters))
	for topic := range q.filters {
		filters[q.TopicPrefix+topic] = 0
	}
	q.subsLock.RUnlock()
	if len(filters) == 0 {
		return &paho.DummyToken{}
	}
	if glog.V(2) {
		for key := range filters {
			glog.Infof("SUB %q", key)
		}
	}
	return q.Client.SubscribeMultiple(filters, q.dispatch)
}

// OnConnectHandler is the default implementation of paho.OnConnectHandler.
func (q *Queue) OnConnectHandler(paho.Client) {
	glog.Info("connected")
	q.Resubscribe()
	if h := q.OnConnect; h != nil {
		h(q)
	}
}

// ConnectionLostHandler is the default implementation of paho.ConnectLostHandler.
func (q *Queue) ConnectionLostHandler(c paho.Client, err error) {
	glog.Warningf("connection lost: %v", err)
	if h := q.OnDisconnect; h != nil {
		h(q)
	}
}

// handlers returns the handlers of every filter matching topic, exact
// filters first.
func (q *Queue) handlers(topic string) []Handler {
	var handlers []Handler
	levels := strings.Split(topic, "/")
	q.subsLock.RLock()
	defer q.subsLock.RUnlock()
	if filter := q.filters[topic]; filter != nil && filter.levels == nil {
		for _, sub := range filter.subs {
			handlers = append(handlers, sub.handler)
		}
	}
	for _, filter := range q.filters {
		if filter.match(topic, levels) {
			for _, sub := range filter.subs {
				handlers = append(handlers, sub.handler)
			}
		}
	}
	return handlers
}

func (q *Queue) dispatch(c paho.Client, msg paho.Message) {
	topic := msg.Topic()
	if !strings.HasPrefix(topic, q.TopicPrefix) {
		return
	}
	glog.V(2).Infof("RCV %q", topic)
	topic = topic[len(q.TopicPrefix):]
	payload := msg.Payload()
	for _, h := range q.handlers(topic) {
		h(topic, payload)
	}
}

// Close unsubscribes the handler. The broker subscription is dropped
// with the last handler of the filter. Closing twice is a no-op.
func (s *Subscription) Close() error {
	q := s.queue
	q.subsLock.Lock()
	if s.closed {
		q.subsLock.Unlock()
		return nil
	}
	s.closed = true
	var unsub bool
	if filter := q.filters[s.topic]; filter != nil {
		for n, sub := range filter.subs {
			if sub == s {
				filter.subs = append(filter.subs[:n], filter.subs[n+1:]...)
				break
			}
		}
		if unsub = len(filter.subs) == 0; unsub {
			delete(q.filters, s.topic)
		}
	}
	q.subsLock.Unlock()
	if !unsub {
		return nil
	}
	glog.V(2).Infof("UNSUB %q", s.topic)
	token := q.Client.Unsubscribe(q.TopicPrefix + s.topic)
	token.Wait()
	return token.Error()
}
