package report

// referenceBlock 固定的行业参考资料，作为每次编排的基础上下文。
// 内容为创业公司成熟度模型与融资基准的摘编。
const referenceBlock = `You are given detailed context about startup stages and fundraising (the "GetFresh Maturity Model"), aggregated market data from "Carta State of Startups 2024," and founder equity trends from the "Founder Ownership Report 2025." Below is a pitch deck outline and relevant details for a startup. Please provide a thorough analysis and feedback, referencing the maturity milestones, funding data, and ownership dynamics where appropriate. Identify any red flags, highlight strengths, and suggest how the startup could optimize its approach. Assume the audience is prospective investors and seasoned startup advisors.

GetFresh Ventures Maturity Model (summary)

Stages: Formation -> Validation -> Growth -> Maturity
Growth Stage: Concept -> MVP -> Growth -> Scale
Fundraising Stage: Ideation -> Friends & Family -> Pre-Seed -> Seed -> Seed+ -> Series A -> Series B

Readiness dimensions evaluated at each stage:
- Problem & Market: problem definition, ICP clarity, TAM/SAM/SOM sizing, competitive moat.
- Product & Technology: MVP completeness, product-market fit signals, technical defensibility, roadmap discipline.
- Traction & Revenue: pilot conversions, ARR/MRR growth, retention and churn, referral dynamics, revenue concentration.
- Go-To-Market: repeatable acquisition channels, CAC/LTV economics, sales cycle predictability, expansion motion.
- Team & Leadership: founder-market fit, senior technical leadership, hiring roadmap, succession and key-person risk.
- Financial Discipline: burn multiple, runway, unit economics transparency, auditable reporting.
- Fundability & Exit: valuation narrative, round sizing versus benchmarks, realistic exit pathways (M&A, PE buyout, IPO).

Carta State of Startups 2024 (selected benchmarks):
- Median pre-seed SAFE round: roughly $750K at a $10M or lower cap; bridge rounds increasingly common between seed and A.
- Median seed round: about $3.1M at a $15M pre-money valuation; graduation rate from seed to Series A within two years has fallen below 20%.
- Series A medians: about $8-12M raised at $40-60M pre-money, with investors requiring $1M+ ARR and efficient growth (burn multiple under 2x).
- Down rounds and structured terms remain elevated versus 2021; clean terms correlate with transparent financial reporting.

Founder Ownership Report 2025 (selected trends):
- Founding teams hold a median of roughly 56% post-seed and 36% post-Series A; solo founders dilute faster than two-founder teams.
- Option pools average 10-12% at seed and are commonly refreshed at Series A; excessive early pool top-ups signal weak negotiation leverage.
- Secondary sales before Series B remain rare and are viewed cautiously by institutional investors.

Use these reference points when scoring maturity, benchmarking fundraising asks, and framing investor-fit guidance.`
