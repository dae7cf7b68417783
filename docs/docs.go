// Package docs holds the OpenAPI description served by the swagger UI.
// Regenerate with `swag init` after changing handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/signup": {"post": {"tags": ["auth"], "summary": "Signup a new member"}},
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Login a user"}},
        "/users/{userID}": {"get": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Get a user with its faction"}},
        "/basepoints": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["basepoints"], "summary": "List basepoints"},
            "post": {"security": [{"BearerAuth": []}], "tags": ["basepoints"], "summary": "Register a basepoint"}
        },
        "/basepoints/by-name/{name}": {"get": {"security": [{"BearerAuth": []}], "tags": ["basepoints"], "summary": "Find a basepoint by its exact name"}},
        "/basepoints/{pointID}": {
            "put": {"security": [{"BearerAuth": []}], "tags": ["basepoints"], "summary": "Rename or redescribe a basepoint"},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["basepoints"], "summary": "Deactivate a basepoint"}
        },
        "/basepoints/{pointID}/reactivate": {"post": {"security": [{"BearerAuth": []}], "tags": ["basepoints"], "summary": "Reactivate a basepoint"}},
        "/captures": {"post": {"security": [{"BearerAuth": []}], "tags": ["captures"], "summary": "Submit a capture"}},
        "/captures/recent": {"get": {"security": [{"BearerAuth": []}], "tags": ["captures"], "summary": "Most recent captures"}},
        "/captures/{captureID}": {"delete": {"security": [{"BearerAuth": []}], "tags": ["captures"], "summary": "Remove a capture"}},
        "/session": {"get": {"security": [{"BearerAuth": []}], "tags": ["session"], "summary": "Session state"}},
        "/session/start": {"post": {"security": [{"BearerAuth": []}], "tags": ["session"], "summary": "Start a session"}},
        "/session/stop": {"post": {"security": [{"BearerAuth": []}], "tags": ["session"], "summary": "Stop the running session"}},
        "/territory/status": {"get": {"security": [{"BearerAuth": []}], "tags": ["territory"], "summary": "Territory status"}},
        "/territory/summary": {"get": {"security": [{"BearerAuth": []}], "tags": ["territory"], "summary": "Per basepoint holder summary"}},
        "/feed": {"get": {"security": [{"BearerAuth": []}], "tags": ["territory"], "summary": "Live capture and reward feed"}},
        "/factions": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["factions"], "summary": "List factions with their balances"},
            "post": {"security": [{"BearerAuth": []}], "tags": ["factions"], "summary": "Create a faction"}
        },
        "/factions/by-name/{name}": {"get": {"security": [{"BearerAuth": []}], "tags": ["factions"], "summary": "Find a faction by name"}},
        "/factions/{factionID}": {"get": {"security": [{"BearerAuth": []}], "tags": ["factions"], "summary": "Get a faction"}},
        "/factions/{factionID}/treasury": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["factions"], "summary": "Treasury history of a faction"},
            "post": {"security": [{"BearerAuth": []}], "tags": ["factions"], "summary": "Credit or debit a faction treasury"}
        },
        "/factions/{factionID}/members": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["factions"], "summary": "Members of a faction"},
            "post": {"security": [{"BearerAuth": []}], "tags": ["factions"], "summary": "Move a user into a faction"}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Bearer token",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "",
	Description:      "",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
