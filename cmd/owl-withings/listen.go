package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"owl-withings/internal/mqtt"
	"owl-withings/internal/store"
)

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Bridge Withings webhooks from MQTT into measurement snapshots",
	Long: `Subscribe to MQTT_WEBHOOK_TOPIC, fetch the measurements each webhook
announces and publish the latest value per type to MQTT_SNAPSHOT_TOPIC/<userid>.
When TOKEN_CACHE_ENABLED is set the snapshots are also kept in Redis.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := ctxGetApp(cmd.Context())
		if !a.cfg.MQTT.Enabled {
			return errors.New("MQTT is disabled: set MQTT_ENABLED=true")
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		client, err := a.client(ctx)
		if err != nil {
			return err
		}
		mqttClient, err := mqtt.NewClient(mqtt.Config{
			Broker:   a.cfg.MQTT.Broker,
			ClientID: a.cfg.MQTT.ClientID,
			Username: a.cfg.MQTT.Username,
			Password: a.cfg.MQTT.Password,
		}, a.logger)
		if err != nil {
			return err
		}
		defer mqttClient.Disconnect()

		var kv store.KVStore
		if a.cfg.TokenCacheEnabled {
			redisKV, err := a.kvStore(ctx)
			if err != nil {
				return err
			}
			kv = redisKV
		}

		broker := mqtt.NewWebhookBroker(client, mqttClient, kv, a.cfg.MQTT.SnapshotTopic, a.logger)
		if err := broker.Start(ctx, mqttClient, a.cfg.MQTT.WebhookTopic); err != nil {
			return err
		}

		// 监听系统信号
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		select {
		case sig := <-sigChan:
			a.logger.Info("Received signal, shutting down", zap.String("signal", sig.String()))
		case <-ctx.Done():
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listenCmd)
}
