package main

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	_ "net/http/pprof"
)

func main() {
	log, _ := zap.NewDevelopment()
	zap.ReplaceGlobals(log)
	viper.SetConfigType("yaml")
	viper.SetConfigName("config")
	viper.AddConfigPath("./")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(viper.GetViper())
	err := viper.ReadInConfig()
	if err != nil {
		log.Sugar().Fatal("init config error:", err)
	}

	err = viper.Unmarshal(&DefConfig)
	if err != nil {
		log.Sugar().Fatal("init config unmarshal error:", err)
	}

	go func() {
		http.ListenAndServe(DefConfig.PprofHost, nil)
	}()

	node := newNode()
	defer node.Close()

	m := http.NewServeMux()
	m.HandleFunc("/push", node.adminPush)
	m.HandleFunc("/stats", node.adminStats)
	m.HandleFunc("/stats/ws", node.serveStatsWs)
	m.Handle("/metrics", promhttp.Handler())
	log.Sugar().Info("Start:", DefConfig.Host)
	err = http.ListenAndServe(DefConfig.Host, m)
	if err != nil {
		log.Sugar().Fatal("ListenAndServe: ", err)
	}
}
