package main

import (
	"github.com/gin-gonic/gin"
	"swap-calldata.backend/internal/interfaces/http/handlers"
)

type routeDeps struct {
	swapCalldataHandler *handlers.SwapCalldataHandler
	idempotency         gin.HandlerFunc
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		swap := v1.Group("/swap")
		{
			if d.idempotency != nil {
				swap.POST("/calldata", d.idempotency, d.swapCalldataHandler.CompileCalldata)
			} else {
				swap.POST("/calldata", d.swapCalldataHandler.CompileCalldata)
			}
			swap.GET("/rules", d.swapCalldataHandler.ListRules)
			swap.GET("/chains", d.swapCalldataHandler.ListChains)
		}
	}
}
