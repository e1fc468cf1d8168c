package main

import (
	"log"

	"github.com/egyjs/order-management-backend-app/cmd/server"
	"github.com/egyjs/order-management-backend-app/internal/config"
	"github.com/egyjs/order-management-backend-app/internal/storage"
)

var (
	srvAddr         = config.Env.ServerAddr
	postgresConnStr = config.Env.PostgresConnStr
	kafkaBrokerAddr = config.Env.KafkaBrokerAddr
	stockAlertTopic = config.Env.StockAlertTopic
)

func main() {
	log.SetFlags(log.Ldate | log.Llongfile)

	db, err := storage.NewPostgresDB(postgresConnStr)
	if err != nil {
		log.Fatal(err)
	}

	srv := server.NewServer(&server.ServerConfig{
		Addr:            srvAddr,
		DB:              db,
		KafkaBrokerAddr: kafkaBrokerAddr,
		StockAlertTopic: stockAlertTopic,
	},
	)
	srv.Run()
}
