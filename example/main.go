package main

import (
	"os"

	"github.com/sirupsen/logrus"

	geoip "github.com/proipinfo/geoip-legacy"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load config")
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to parse log level")
	}
	logrus.SetLevel(level)

	enc, err := newEncoder(cfg.OutputFormat, os.Stdout)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create encoder")
	}

	db, err := geoip.OpenFile(cfg.DBPath,
		geoip.WithMode(cfg.Mode),
		geoip.WithLeafCache(cfg.CacheSize),
		geoip.WithLogger(logrus.WithField("db", cfg.DBPath)))
	if err != nil {
		logrus.WithError(err).Fatal("Failed to open database")
	}
	defer db.Close()

	info, err := db.HeaderInfo()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to read database info")
	}
	logrus.WithFields(logrus.Fields{
		"edition":    info.Edition.String(),
		"build_date": info.BuildDate.Format("2006-01-02"),
		"premium":    info.Premium,
	}).Info("Database opened")

	ips := os.Args[1:]
	if len(ips) == 0 {
		ips = []string{"8.8.8.8", "2001:4860:4860::8888"}
	}
	for _, ip := range ips {
		res, err := lookup(db, ip)
		if err != nil {
			logrus.WithError(err).WithField("ip", ip).Error("Lookup failed")
			continue
		}
		if err := enc.Encode(res); err != nil {
			logrus.WithError(err).Fatal("Failed to write result")
		}
	}
}

func lookup(db *geoip.Client, ip string) (result, error) {
	res := result{IP: ip}
	var err error
	if res.Country, err = db.Country(ip); err != nil {
		return res, err
	}
	if res.ID, err = db.ID(ip); err != nil {
		return res, err
	}
	edition := db.Edition()
	switch {
	case edition.IsCity():
		if res.Location, err = db.Location(ip); err != nil {
			return res, err
		}
	case edition.IsRegion():
		region, err := db.Region(ip)
		if err != nil {
			return res, err
		}
		res.Region = &region
	case edition.IsText():
		if res.Organization, _, err = db.Organization(ip); err != nil {
			return res, err
		}
	}
	return res, nil
}
