package mq

// PlatformEventGroup is the stream and durable consumer every platform
// event rides on. The stream subscribes the whole tunehub.> space so new
// subjects never need a stream change; consumers filter by subject.
var PlatformEventGroup = MQGroup{
	StreamName:   "tunehubEventStream",
	ConsumerName: "tunehubEventConsumer",
}

type MQGroup struct {
	StreamName   string
	ConsumerName string
}

type MessageMeta struct {
	Topic string
}

type MessageCallback func(raw []byte, meta MessageMeta) error

type SubscribeParams struct {
	Group                  MQGroup
	Topics                 []string
	AutoACK                bool // auto acknowledge message after callback success
	IsRedeliverForCBFailed bool // whether or not redeliver message for callback return error
	Callback               MessageCallback
}
