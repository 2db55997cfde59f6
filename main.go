/*
Copyright © 2022 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"icreport/cmd"

	log "github.com/sirupsen/logrus"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
