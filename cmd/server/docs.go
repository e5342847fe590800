package main

//go:generate swag init -g cmd/server/main.go -o docs

// @title           Rehab Track API
// @version         0.1.0
// @description     Rehab project budgeting, draws, vendors and deal economics.
// @host            localhost:8080
// @BasePath        /
// @schemes         http
