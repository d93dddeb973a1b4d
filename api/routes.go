package api

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	api := s.router.Group("/api")
	{
		parties := api.Group("/parties")
		{
			parties.POST("", s.handleAllocateParty)
			parties.GET("/custodian", s.handleCustodianParty)
		}

		tokens := api.Group("/tokens")
		{
			tokens.POST("/factory", s.handleTokenFactory)
			tokens.GET("/balances", s.handleBalances)
			tokens.GET("/holdings", s.handleTokenHoldings)

			tokens.POST("/mint-requests", s.handleCreateTokenMint)
			tokens.GET("/mint-requests", s.handleListTokenMints)
			tokens.POST("/mint-requests/:cid/accept", action(s, "accept", s.tokens.AcceptMintRequest))
			tokens.POST("/mint-requests/:cid/decline", action(s, "decline", noResult(s.tokens.DeclineMintRequest)))
			tokens.POST("/mint-requests/:cid/withdraw", action(s, "withdraw", noResult(s.tokens.WithdrawMintRequest)))

			tokens.POST("/burn-requests", s.handleCreateTokenBurn)
			tokens.GET("/burn-requests", s.handleListTokenBurns)
			tokens.POST("/burn-requests/:cid/accept", action(s, "accept", noResult(s.tokens.AcceptBurnRequest)))
			tokens.POST("/burn-requests/:cid/decline", action(s, "decline", noResult(s.tokens.DeclineBurnRequest)))
			tokens.POST("/burn-requests/:cid/withdraw", action(s, "withdraw", noResult(s.tokens.WithdrawBurnRequest)))

			tokens.POST("/transfer-requests", s.handleCreateTokenTransfer)
			tokens.GET("/transfer-requests", s.handleListTokenTransfers)
			tokens.POST("/transfer-requests/:cid/accept", action(s, "accept", s.tokens.AcceptTransferRequest))
			tokens.POST("/transfer-requests/:cid/decline", action(s, "decline", noResult(s.tokens.DeclineTransferRequest)))
			tokens.POST("/transfer-requests/:cid/withdraw", action(s, "withdraw", noResult(s.tokens.WithdrawTransferRequest)))

			tokens.POST("/preapprovals", s.handleCreatePreapproval)
			tokens.GET("/preapprovals", s.handleListPreapprovals)
			tokens.POST("/preapprovals/send", s.handleSendWithPreapproval)
			tokens.POST("/preapprovals/:cid/accept", action(s, "accept", s.tokens.AcceptPreapprovalProposal))
			tokens.POST("/preapprovals/:cid/decline", action(s, "decline", noResult(s.tokens.DeclinePreapprovalProposal)))
			tokens.POST("/preapprovals/:cid/withdraw", action(s, "withdraw", noResult(s.tokens.WithdrawPreapprovalProposal)))
		}

		bonds := api.Group("/bonds")
		{
			bonds.POST("/instruments", s.handleCreateInstrument)
			bonds.GET("/holdings", s.handleBondHoldings)

			bonds.POST("/mint-requests", s.handleCreateBondMint)
			bonds.GET("/mint-requests", s.handleListBondMints)
			bonds.POST("/mint-requests/:cid/accept", action(s, "accept", s.bonds.AcceptMintRequest))
			bonds.POST("/mint-requests/:cid/decline", action(s, "decline", noResult(s.bonds.DeclineMintRequest)))
			bonds.POST("/mint-requests/:cid/withdraw", action(s, "withdraw", noResult(s.bonds.WithdrawMintRequest)))

			bonds.POST("/transfer-requests", s.handleCreateBondTransfer)
			bonds.GET("/transfer-requests", s.handleListBondTransfers)
			bonds.POST("/transfer-requests/:cid/accept", action(s, "accept", noResult(s.bonds.AcceptTransferRequest)))
			bonds.POST("/transfer-requests/:cid/decline", action(s, "decline", noResult(s.bonds.DeclineTransferRequest)))
			bonds.POST("/transfer-requests/:cid/withdraw", action(s, "withdraw", noResult(s.bonds.WithdrawTransferRequest)))

			lifecycle := bonds.Group("/lifecycle")
			{
				lifecycle.POST("/events", s.handleLifecycleEvent)
				lifecycle.GET("/effects", s.handleListEffects)
				lifecycle.POST("/claims", s.handleCreateClaim)
				lifecycle.GET("/claims", s.handleListClaims)
				lifecycle.POST("/claims/:cid/accept", action(s, "accept", s.bonds.AcceptLifecycleClaimRequest))
				lifecycle.POST("/claims/:cid/decline", action(s, "decline", noResult(s.bonds.DeclineLifecycleClaimRequest)))
				lifecycle.POST("/claims/:cid/withdraw", action(s, "withdraw", noResult(s.bonds.WithdrawLifecycleClaimRequest)))
			}
		}

		etf := api.Group("/etf")
		{
			etf.POST("/compositions", s.handleCreateComposition)
			etf.GET("/compositions", s.handleListCompositions)
			etf.POST("/mint-recipes", s.handleCreateMintRecipe)

			etf.POST("/mint-requests", s.handleCreateETFMint)
			etf.GET("/mint-requests", s.handleListETFMints)
			etf.POST("/mint-requests/:cid/accept", action(s, "accept", s.etf.AcceptMintRequest))
			etf.POST("/mint-requests/:cid/decline", action(s, "decline", noResult(s.etf.DeclineMintRequest)))
			etf.POST("/mint-requests/:cid/withdraw", action(s, "withdraw", noResult(s.etf.WithdrawMintRequest)))

			etf.POST("/burn-requests", s.handleCreateETFBurn)
			etf.GET("/burn-requests", s.handleListETFBurns)
			etf.POST("/burn-requests/:cid/accept", action(s, "accept", noResult(s.etf.AcceptBurnRequest)))
			etf.POST("/burn-requests/:cid/decline", action(s, "decline", noResult(s.etf.DeclineBurnRequest)))
			etf.POST("/burn-requests/:cid/withdraw", action(s, "withdraw", noResult(s.etf.WithdrawBurnRequest)))
		}
	}
}
