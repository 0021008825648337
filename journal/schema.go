package journal

const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	as_of DATETIME NOT NULL,
	generated_at DATETIME NOT NULL,
	horizon_days INTEGER NOT NULL,
	hqla REAL NOT NULL,
	scenarios INTEGER NOT NULL,
	failed INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS scenario_kpis (
	run_id TEXT NOT NULL REFERENCES runs(run_id),
	scenario TEXT NOT NULL,
	severity TEXT NOT NULL,
	lcr REAL NOT NULL,
	lcr_unbounded INTEGER NOT NULL,
	peak_outflow_30d REAL NOT NULL,
	peak_cumulative_outflow REAL NOT NULL,
	survival_days INTEGER NOT NULL,
	binding_metric TEXT NOT NULL,
	binding_gap_usd TEXT NOT NULL,
	warnings INTEGER NOT NULL,
	error TEXT NOT NULL,
	PRIMARY KEY (run_id, scenario)
);

CREATE TABLE IF NOT EXISTS ladder (
	run_id TEXT NOT NULL REFERENCES runs(run_id),
	scenario TEXT NOT NULL,
	day INTEGER NOT NULL,
	date DATETIME NOT NULL,
	inflow REAL NOT NULL,
	outflow REAL NOT NULL,
	net REAL NOT NULL,
	cumulative_net REAL NOT NULL,
	cumulative_outflow REAL NOT NULL,
	PRIMARY KEY (run_id, scenario, day)
);

CREATE INDEX IF NOT EXISTS idx_runs_generated_at ON runs(generated_at);
`
