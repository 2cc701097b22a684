// Package mqtt connects the EnOcean bridge to the Gray Logic message bus.
//
// The bridge is one leaf of a star: protocol bridges translate their bus
// (EnOcean radio here, KNX elsewhere) into bus messages, and everything
// else in the stack consumes those. Four topic families matter to this
// bridge:
//
//	graylogic/state/enocean/<device>   decoded readings, retained
//	graylogic/discovery/enocean        unknown-device records, not retained
//	graylogic/command/enocean/<device> actuator commands, consumed
//	graylogic/health/enocean           periodic pipeline/registry report
//
// plus graylogic/system/status, where the client announces online/offline
// transitions and leaves a last will for crash detection.
//
// Client wraps paho with reconnect handling; subscriptions registered
// through it are replayed after every reconnect. ReadingPublisher adapts
// the client to the gateway's sink interface, and HealthPublisher emits
// the recurring health report:
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	sink := mqtt.NewReadingPublisher(client, byte(cfg.MQTT.QoS))
//	err = client.Subscribe(mqtt.Topics{}.AllBridgeCommands("enocean"), 1, handleCommand)
//
// Brokers are typically Mosquitto; enable cfg.Broker.TLS outside of local
// development, as payloads are otherwise cleartext on the wire.
package mqtt
