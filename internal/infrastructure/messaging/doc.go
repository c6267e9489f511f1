// Package messaging publishes token created events to Kafka and reads them back for operators.
package messaging
