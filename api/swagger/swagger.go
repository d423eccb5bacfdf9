package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Conference Room Booking API",
        "description": "Best-fit conference room allocation in 15 minute slots",
        "version": "1.0.0"
    },
    "basePath": "/v1/conference/room",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Rooms", "description": "Room booking and availability"},
        {"name": "Operations", "description": "Health and metrics"}
    ],
    "paths": {
        "/book": {
            "post": {
                "tags": ["Rooms"],
                "summary": "Book the best-fit conference room",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BookingRequest"}}
                ],
                "responses": {
                    "200": {"description": "Booked", "schema": {"$ref": "#/definitions/BookingEnvelope"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/ErrorEnvelope"}},
                    "404": {"description": "No room available", "schema": {"$ref": "#/definitions/ErrorEnvelope"}},
                    "409": {"description": "Maintenance window or booking conflict", "schema": {"$ref": "#/definitions/ErrorEnvelope"}},
                    "422": {"description": "Attendees exceed the largest room", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}
                }
            }
        },
        "/view": {
            "post": {
                "tags": ["Rooms"],
                "summary": "List free slots per room",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ViewRoomRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ViewEnvelope"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/ErrorEnvelope"}},
                    "404": {"description": "No rooms found", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}
                }
            }
        },
        "/view/export": {
            "post": {
                "tags": ["Rooms"],
                "summary": "Download room availability",
                "consumes": ["application/json"],
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ViewRoomRequest"}}
                ],
                "responses": {
                    "200": {"description": "Document", "schema": {"type": "file"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/ErrorEnvelope"}},
                    "404": {"description": "No rooms found", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}
                }
            }
        },
        "/bookings/{reference}": {
            "get": {
                "tags": ["Rooms"],
                "summary": "Get a booking by reference",
                "produces": ["application/json"],
                "parameters": [
                    {"name": "reference", "in": "path", "required": true, "type": "string", "format": "uuid"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/BookingDetailsEnvelope"}},
                    "400": {"description": "Malformed reference", "schema": {"$ref": "#/definitions/ErrorEnvelope"}},
                    "404": {"description": "Unknown reference", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}
                }
            }
        },
        "/health": {
            "get": {
                "tags": ["Operations"],
                "summary": "Liveness check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "tags": ["Operations"],
                "summary": "Readiness check of Postgres and Redis",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "A dependency is unavailable"}
                }
            }
        },
        "/metrics": {
            "get": {
                "tags": ["Operations"],
                "summary": "Prometheus metrics",
                "produces": ["text/plain"],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        }
    },
    "definitions": {
        "BookingRequest": {
            "type": "object",
            "required": ["persons", "startTime", "endTime"],
            "properties": {
                "persons": {"type": "integer", "minimum": 2, "example": 7},
                "startTime": {"type": "string", "example": "08:15"},
                "endTime": {"type": "string", "example": "08:30"},
                "userName": {"type": "string", "maxLength": 100}
            }
        },
        "BookingResponse": {
            "type": "object",
            "properties": {
                "room": {"type": "string", "example": "Inspire"},
                "startTime": {"type": "string"},
                "endTime": {"type": "string"},
                "bookingReference": {"type": "string", "format": "uuid"}
            }
        },
        "BookingDetails": {
            "type": "object",
            "properties": {
                "bookingReference": {"type": "string", "format": "uuid"},
                "room": {"type": "string"},
                "startTime": {"type": "string"},
                "endTime": {"type": "string"},
                "persons": {"type": "integer"},
                "bookedBy": {"type": "string"},
                "bookedAt": {"type": "string", "format": "date-time"},
                "slots": {"type": "array", "items": {"type": "string"}}
            }
        },
        "ViewRoomRequest": {
            "type": "object",
            "required": ["startTime", "endTime"],
            "properties": {
                "startTime": {"type": "string", "example": "08:00"},
                "endTime": {"type": "string", "example": "10:15"}
            }
        },
        "RoomDetails": {
            "type": "object",
            "properties": {
                "room": {"type": "string"},
                "capacity": {"type": "integer"},
                "time": {"type": "array", "items": {"type": "string", "example": "08:15 - 08:30"}}
            }
        },
        "ViewRoomResponse": {
            "type": "object",
            "properties": {
                "availableRooms": {"type": "array", "items": {"$ref": "#/definitions/RoomDetails"}}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "details": {"type": "array", "items": {"type": "string"}},
                "path": {"type": "string"}
            }
        },
        "BookingEnvelope": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "SUCCESS"},
                "data": {"$ref": "#/definitions/BookingResponse"},
                "meta": {"type": "object"}
            }
        },
        "BookingDetailsEnvelope": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "SUCCESS"},
                "data": {"$ref": "#/definitions/BookingDetails"}
            }
        },
        "ViewEnvelope": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "SUCCESS"},
                "data": {"$ref": "#/definitions/ViewRoomResponse"},
                "meta": {"type": "object"}
            }
        },
        "ErrorEnvelope": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "ERROR"},
                "error": {"$ref": "#/definitions/APIError"}
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
