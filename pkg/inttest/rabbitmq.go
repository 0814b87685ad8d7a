package inttest

import (
	"context"
	"fmt"
	"testing"

	amqpgo "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const natAMQPPort = "5672/tcp"

// SetupRabbitMQ creates a RabbitMQ container with an AMQP channel ready to consume or publish
// messages. We are using the management image so you can debug tests using its admin panel.
func SetupRabbitMQ(t *testing.T) *AMQP {
	t.Helper()
	require := require.New(t)
	ctx := context.TODO()

	user, pw := "guest", "guest"
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image: "bitnami/rabbitmq:3.13",
			Env: map[string]string{
				"RABBITMQ_USERNAME":                    user,
				"RABBITMQ_PASSWORD":                    pw,
				"RABBITMQ_MANAGEMENT_ALLOW_WEB_ACCESS": "true",
				"RABBITMQ_DISK_FREE_ABSOLUTE_LIMIT":    "100MB",
			},
			ExposedPorts: []string{natAMQPPort, "15672/tcp"},
			WaitingFor:   wait.ForLog("Time to start RabbitMQ").WithOccurrence(2),
		},
		Started: true,
	})
	require.NoError(err, "failed setting up RabbitMQ")
	t.Cleanup(func() {
		require.NoError(container.Terminate(ctx), "failed to terminate RabbitMQ")
	})

	host, err := container.Host(ctx)
	require.NoError(err, "failed to get RabbitMQ host")
	port, err := container.MappedPort(ctx, natAMQPPort)
	require.NoError(err, "failed to get RabbitMQ AMQP port")

	URI := fmt.Sprintf("amqp://%s:%s@%s:%s", user, pw, host, port.Port())
	conn, err := amqpgo.Dial(URI)
	require.NoError(err, "failed setting up AMQP connection")
	t.Cleanup(func() { _ = conn.Close() })
	channel, err := conn.Channel()
	require.NoError(err, "failed setting up AMQP channel")

	return &AMQP{
		URI:     URI,
		Host:    host,
		Port:    port.Int(),
		Channel: channel,
	}
}

// AMQP allows making requests to RabbitMQ via the low-level github.com/rabbitmq/amqp091-go
// library.
type AMQP struct {
	URI     string
	Host    string
	Port    int
	Channel *amqpgo.Channel // Channel established with RabbitMQ
}
