package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Clubs Council Events API",
        "description": "Campus event registration, multi-party approval and room booking",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Events", "description": "Event registration and listing"},
        {"name": "Workflow", "description": "Multi-party approval pipeline"},
        {"name": "Rooms", "description": "Room availability and clash checks"},
        {"name": "Bills", "description": "Post-event bill processing"},
        {"name": "Reports", "description": "CSV/PDF data exports"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/events": {
            "get": {
                "tags": ["Events"],
                "summary": "List events bucketed as ongoing, upcoming, past",
                "parameters": [
                    {"name": "clubId", "in": "query", "type": "string"},
                    {"name": "name", "in": "query", "type": "string"},
                    {"name": "public", "in": "query", "type": "boolean"},
                    {"name": "paginated", "in": "query", "type": "boolean"},
                    {"name": "skip", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "pastMonths", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Events"],
                "summary": "Register a new event",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateEventRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/events/incomplete": {
            "get": {
                "tags": ["Events"],
                "summary": "List a club's draft events",
                "parameters": [
                    {"name": "clubId", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/events/pending": {
            "get": {
                "tags": ["Events"],
                "summary": "List the approval queue for the caller's desk",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/events/bills": {
            "get": {
                "tags": ["Bills"],
                "summary": "Bill processing overview for finished budgeted events",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/events/report": {
            "post": {
                "tags": ["Reports"],
                "summary": "Download filtered event data as CSV or PDF",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReportRequest"}}
                ],
                "responses": {
                    "200": {"description": "File attachment"},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/events/reassign": {
            "post": {
                "tags": ["Events"],
                "summary": "Bulk-move events between club ids",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReassignClubRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Bad shared secret", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/events/code/{code}": {
            "get": {
                "tags": ["Events"],
                "summary": "Fetch one event by its code",
                "parameters": [
                    {"name": "code", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/events/{id}": {
            "get": {
                "tags": ["Events"],
                "summary": "Fetch one event",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/APIError"}}
                }
            },
            "patch": {
                "tags": ["Events"],
                "summary": "Edit event details",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EditEventRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/APIError"}}
                }
            },
            "delete": {
                "tags": ["Workflow"],
                "summary": "Logically delete an event",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/events/{id}/submit": {
            "post": {
                "tags": ["Workflow"],
                "summary": "Submit a draft event for approval",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/events/{id}/decide": {
            "post": {
                "tags": ["Workflow"],
                "summary": "Record the council decision on a pending event",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DecideRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Lost a concurrent decision", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/events/{id}/reject": {
            "post": {
                "tags": ["Workflow"],
                "summary": "Send a pending event back to its club",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RejectRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/events/{id}/approve-budget": {
            "post": {
                "tags": ["Workflow"],
                "summary": "Approve the budget of a pending event",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Budget already cleared", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/events/{id}/approve-room": {
            "post": {
                "tags": ["Workflow"],
                "summary": "Approve the room booking of a pending event",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/events/{id}/refresh": {
            "post": {
                "tags": ["Workflow"],
                "summary": "Re-fire notifications for an approved event",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/events/{id}/bills": {
            "patch": {
                "tags": ["Bills"],
                "summary": "Progress the bill processing state of a finished event",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateBillsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/events/{id}/report": {
            "post": {
                "tags": ["Reports"],
                "summary": "File the post-event report for an ended, approved event",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitEventReportRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Report already filed", "schema": {"$ref": "#/definitions/APIError"}}
                }
            },
            "get": {
                "tags": ["Reports"],
                "summary": "Fetch the post-event report of an event",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No report filed", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/events/{id}/clashes": {
            "get": {
                "tags": ["Rooms"],
                "summary": "List approved events clashing with the given event",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "filterByLocation", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/rooms/available": {
            "get": {
                "tags": ["Rooms"],
                "summary": "Report which catalog rooms are free for an interval",
                "parameters": [
                    {"name": "start", "in": "query", "required": true, "type": "string", "format": "date-time"},
                    {"name": "end", "in": "query", "required": true, "type": "string", "format": "date-time"},
                    {"name": "excludeEventId", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad interval", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        }
    },
    "definitions": {
        "CreateEventRequest": {
            "type": "object",
            "required": ["clubId", "name", "startAt", "endAt", "poc"],
            "properties": {
                "clubId": {"type": "string"},
                "name": {"type": "string"},
                "description": {"type": "string"},
                "mode": {"type": "string", "enum": ["hybrid", "online", "offline"]},
                "audience": {"type": "array", "items": {"type": "string"}},
                "collabClubIds": {"type": "array", "items": {"type": "string"}},
                "startAt": {"type": "string", "format": "date-time"},
                "endAt": {"type": "string", "format": "date-time"},
                "locations": {"type": "array", "items": {"type": "string"}},
                "altLocations": {"type": "array", "items": {"type": "string"}},
                "otherLocation": {"type": "string"},
                "otherAltLocation": {"type": "string"},
                "poc": {"type": "string"},
                "link": {"type": "string"},
                "equipment": {"type": "string"},
                "additional": {"type": "string"},
                "population": {"type": "integer"},
                "externalPopulation": {"type": "integer"},
                "budget": {"type": "array", "items": {"$ref": "#/definitions/BudgetItem"}},
                "sponsors": {"type": "array", "items": {"$ref": "#/definitions/Sponsor"}}
            }
        },
        "EditEventRequest": {
            "type": "object",
            "required": ["clubId"],
            "properties": {
                "clubId": {"type": "string"},
                "name": {"type": "string"},
                "description": {"type": "string"},
                "mode": {"type": "string", "enum": ["hybrid", "online", "offline"]},
                "startAt": {"type": "string", "format": "date-time"},
                "endAt": {"type": "string", "format": "date-time"},
                "locations": {"type": "array", "items": {"type": "string"}},
                "poc": {"type": "string"},
                "budget": {"type": "array", "items": {"$ref": "#/definitions/BudgetItem"}}
            }
        },
        "DecideRequest": {
            "type": "object",
            "required": ["approverId"],
            "properties": {
                "approverId": {"type": "string"},
                "budgetOverride": {"type": "boolean"},
                "roomOverride": {"type": "boolean"}
            }
        },
        "RejectRequest": {
            "type": "object",
            "required": ["reason"],
            "properties": {
                "reason": {"type": "string"}
            }
        },
        "UpdateBillsRequest": {
            "type": "object",
            "required": ["state"],
            "properties": {
                "state": {"type": "string", "enum": ["not_submitted", "incomplete", "submitted", "processed"]},
                "comment": {"type": "string"}
            }
        },
        "SubmitEventReportRequest": {
            "type": "object",
            "required": ["summary", "submittedBy"],
            "properties": {
                "summary": {"type": "string"},
                "attendance": {"type": "integer"},
                "photosLink": {"type": "string"},
                "feedback": {"type": "string"},
                "submittedBy": {"type": "string"}
            }
        },
        "ReassignClubRequest": {
            "type": "object",
            "required": ["oldClubId", "newClubId", "secret"],
            "properties": {
                "oldClubId": {"type": "string"},
                "newClubId": {"type": "string"},
                "secret": {"type": "string"}
            }
        },
        "ReportRequest": {
            "type": "object",
            "required": ["status", "format", "fields"],
            "properties": {
                "clubId": {"type": "string"},
                "status": {"type": "string", "enum": ["pending", "approved", "all"]},
                "format": {"type": "string", "enum": ["csv", "pdf"]},
                "fields": {"type": "array", "items": {"type": "string"}},
                "startDate": {"type": "string", "format": "date-time"},
                "endDate": {"type": "string", "format": "date-time"}
            }
        },
        "BudgetItem": {
            "type": "object",
            "properties": {
                "description": {"type": "string"},
                "amount": {"type": "number"},
                "advance": {"type": "boolean"}
            }
        },
        "Sponsor": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "website": {"type": "string"},
                "amount": {"type": "number"},
                "previouslySponsored": {"type": "boolean"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "limit": {"type": "integer"},
                "total": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
